// Package textutil provides string normalization and similarity scoring used
// by metadata matching.
package textutil
