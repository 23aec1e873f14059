package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNote_SetName_RecomputesSlug(t *testing.T) {
	n := &Note{Name: "Old", Slug: "old"}
	n.Set(FieldName, "Trip Plan")

	assert.Equal(t, "Trip Plan", n.Get(FieldName))
	assert.Equal(t, "trip-plan", n.Slug)
}

func TestNote_SetOtherFields_KeepSlug(t *testing.T) {
	n := &Note{Name: "A", Slug: "a"}
	n.Set(FieldContent, "body")
	n.Set(FieldTags, "x,y")

	assert.Equal(t, "a", n.Slug)
	assert.Equal(t, "body", n.Get(FieldContent))
	assert.Equal(t, "x,y", n.Get(FieldTags))
}

func TestNotePatch_Fields(t *testing.T) {
	tags := "work"
	got := NotePatch{Tags: &tags}.Fields()
	assert.Equal(t, map[Field]string{FieldTags: "work"}, got)
	assert.Empty(t, NotePatch{}.Fields())
}

func TestFieldStrings(t *testing.T) {
	assert.Equal(t, "name", FieldName.String())
	assert.Equal(t, "tags", FieldTags.String())
	assert.Equal(t, "dirty", Dirty.String())
	assert.Equal(t, "clean", Clean.String())
}
