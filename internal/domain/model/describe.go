package model

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Describe renders spec as a canonical string. Two trees with the same shape
// and leaf configuration render identically.
func Describe(spec Specification) string {
	var b strings.Builder

	describe(&b, spec)

	return b.String()
}

// Fingerprint hashes the canonical rendering of spec.
func Fingerprint(spec Specification) uint64 {
	return xxhash.Sum64String(Describe(spec))
}

func describe(b *strings.Builder, spec Specification) {
	if spec == nil {
		b.WriteString("<nil>")

		return
	}

	if node, ok := spec.(JoinNode); ok {
		fmt.Fprintf(b, "%s:%s(", spec.Operator(), node.Kind())

		for i, h := range node.Handles() {
			if i > 0 {
				b.WriteString(",")
			}

			b.WriteString(h.Path)
		}

		b.WriteString(")")

		if node.Distinct() {
			b.WriteString("!distinct")
		}

		return
	}

	b.WriteString(string(spec.Operator()))

	if spec.IsComposite() {
		b.WriteString("(")

		for i, child := range spec.Children() {
			if i > 0 {
				b.WriteString(", ")
			}

			describe(b, child)
		}

		b.WriteString(")")

		return
	}

	paths := spec.Paths()
	if len(paths) == 0 {
		return
	}

	b.WriteString("[")

	for i, p := range paths {
		if i > 0 {
			b.WriteString("|")
		}

		b.WriteString(p.String())
	}

	b.WriteString("]")

	if v := spec.Value(); v != nil {
		fmt.Fprintf(b, "(%v)", v)
	}
}
