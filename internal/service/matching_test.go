package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourorg/hackconnect/internal/domain"
)

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name     string
		user     []string
		required []string
		want     int
	}{
		{"full coverage", []string{"go", "react"}, []string{"go", "react"}, 100},
		{"half coverage", []string{"go"}, []string{"go", "react"}, 50},
		{"no overlap", []string{"python"}, []string{"go", "react"}, 0},
		{"case insensitive", []string{"Go", "REACT"}, []string{"go", "react"}, 100},
		{"extra skills never hurt", []string{"go", "react", "rust", "sql"}, []string{"go"}, 100},
		{"empty requirements score zero", []string{"go"}, []string{}, 0},
		{"nil requirements score zero", []string{"go"}, nil, 0},
		{"empty user skills", nil, []string{"go", "react"}, 0},
		{"duplicate requirements counted once", []string{"go"}, []string{"go", "Go", "GO"}, 100},
		{"one of three", []string{"go"}, []string{"go", "react", "figma"}, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchScore(tt.user, tt.required))
		})
	}
}

func TestMatchScoreNotSymmetric(t *testing.T) {
	user := []string{"go", "react", "sql"}
	required := []string{"go"}

	assert.Equal(t, 100, MatchScore(user, required))
	assert.Equal(t, 33, MatchScore(required, user))
}

func TestFilterHackathonsByTags(t *testing.T) {
	hackathons := []*domain.Hackathon{
		{ID: "h1", Name: "AI Jam", Tags: []string{"ai", "ml"}},
		{ID: "h2", Name: "Web Week", Tags: []string{"web", "react"}},
		{ID: "h3", Name: "Open Hack", Tags: nil},
	}

	t.Run("empty tags return everything", func(t *testing.T) {
		got := FilterHackathonsByTags(hackathons, nil)
		assert.Len(t, got, 3)
	})

	t.Run("any overlap matches", func(t *testing.T) {
		got := FilterHackathonsByTags(hackathons, []string{"react", "rust"})
		assert.Len(t, got, 1)
		assert.Equal(t, "h2", got[0].ID)
	})

	t.Run("tag match is case sensitive", func(t *testing.T) {
		got := FilterHackathonsByTags(hackathons, []string{"AI"})
		assert.Empty(t, got)
	})

	t.Run("untagged hackathons never match", func(t *testing.T) {
		got := FilterHackathonsByTags(hackathons, []string{"ai", "web"})
		assert.Len(t, got, 2)
	})
}
