package tags_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/peek/pkg/tags"
)

const markdownSource = `Intro paragraph.

# Guide

Some text.

## Install

Run the installer.

Setext Title
------------

| a | b |
|---|---|
| 1 | 2 |
`

func TestMarkdown_ContextTag(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "guide.md", markdownSource)
	lookup := tags.NewMarkdown()

	tests := []struct {
		name     string
		line     int
		wantLine int
		wantName string
		wantPat  string
	}{
		{"top level section", 5, 3, "Guide", "# Guide"},
		{"nested section", 9, 7, "Install", "## Install"},
		{"heading line itself", 7, 7, "Install", "## Install"},
		{"setext heading", 16, 11, "Setext Title", "Setext Title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tag, err := lookup.ContextTag(context.Background(), path, tt.line)
			require.NoError(t, err)
			require.NotNil(t, tag)

			assert.Equal(t, tt.wantLine, tag.LineNumber)
			assert.Equal(t, tt.wantName, tag.Name)
			assert.Equal(t, tt.wantPat, tag.TrimmedPattern())
			assert.Equal(t, tags.HeadingKind, tag.Kind)
		})
	}
}

func TestMarkdown_BeforeFirstHeading(t *testing.T) {
	t.Parallel()

	path := writeSource(t, "guide.markdown", markdownSource)

	tag, err := tags.NewMarkdown().ContextTag(context.Background(), path, 1)
	require.NoError(t, err)
	assert.Nil(t, tag)
}

func TestMarkdown_OtherFilesHaveNoGrammar(t *testing.T) {
	t.Parallel()

	_, err := tags.NewMarkdown().ContextTag(context.Background(), writeSource(t, "demo.go", goSource), 12)
	require.ErrorIs(t, err, tags.ErrNoGrammar)
}

func TestChain(t *testing.T) {
	t.Parallel()

	lookup := tags.Chain{tags.NewMarkdown(), tags.NewTreeSitter()}

	tag, err := lookup.ContextTag(context.Background(), writeSource(t, "guide.md", markdownSource), 9)
	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "## Install", tag.TrimmedPattern())

	tag, err = lookup.ContextTag(context.Background(), writeSource(t, "demo.go", goSource), 12)
	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "Greet", tag.Name)

	_, err = lookup.ContextTag(context.Background(), writeSource(t, "notes.txt", "text"), 1)
	require.ErrorIs(t, err, tags.ErrNoGrammar)
}
