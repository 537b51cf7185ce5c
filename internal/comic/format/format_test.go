// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/longboxhq/longbox/internal/comic/format"
	"github.com/longboxhq/longbox/pkg/pointer"
)

/*
TestClassify_Table walks the canonical rule set across representative inputs.
*/
func TestClassify_Table(t *testing.T) {
	set := format.NewExclusionSet()

	cases := []struct {
		name     string
		declared *string
		want     format.Class
	}{
		{"absent is plain", nil, format.Plain},
		{"empty is plain", pointer.To(""), format.Plain},
		{"whitespace only is plain", pointer.To("   "), format.Plain},
		{"annual", pointer.To("Annual"), format.Annual},
		{"annual with padding", pointer.To("  ANNUAL  "), format.Annual},
		{"limited series is special", pointer.To("Limited Series"), format.Special},
		{"graphic novel is special", pointer.To("Graphic Novel"), format.Special},
		{"tpb is special", pointer.To("TPB"), format.Special},
		{"one-shot both spellings", pointer.To("One Shot"), format.Special},
		{"hyphenated one-shot", pointer.To("one-shot"), format.Special},
		{"hardcover is special", pointer.To("Hardcover"), format.Special},
		{"unrecognized format stays plain", pointer.To("Newsstand Edition"), format.Plain},
		{"typo stays plain", pointer.To("Anual"), format.Plain},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, format.Classify(tc.declared, set))
		})
	}
}

/*
TestClassify_Idempotent verifies repeated application never flips a result.
*/
func TestClassify_Idempotent(t *testing.T) {
	set := format.NewExclusionSet()

	inputs := []*string{nil, pointer.To(""), pointer.To("Annual"), pointer.To("TPB"), pointer.To("weird")}
	for _, input := range inputs {
		first := format.Classify(input, set)
		second := format.Classify(input, set)
		assert.Equal(t, first, second)
	}
}

/*
TestNewExclusionSet_OperatorExtension verifies config-supplied tokens extend
the set with the same normalization as declared formats.
*/
func TestNewExclusionSet_OperatorExtension(t *testing.T) {
	set := format.NewExclusionSet("  Ashcan ", "")

	assert.Equal(t, format.Special, format.Classify(pointer.To("ashcan"), set))
	assert.Equal(t, format.Special, format.Classify(pointer.To("ASHCAN"), set))

	// Extensions never shadow the annual rule.
	extended := format.NewExclusionSet("annual")
	assert.Equal(t, format.Annual, format.Classify(pointer.To("Annual"), extended))
}
