package wikidata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateQID(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"Maharashtra", "Q1191", true},
		{"maharashtra", "Q1191", true},
		{"Andaman and Nicobar Islands", "Q40888", true},
		{"Atlantis", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		qid, ok := StateQID(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, qid, tt.name)
	}
}
