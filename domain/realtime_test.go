package domain_test

import (
	"testing"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/stretchr/testify/assert"
)

func TestFilterMatch(t *testing.T) {
	tests := []struct {
		name    string
		filter  domain.Filter
		payload string
		want    bool
	}{
		{"zero filter", domain.Filter{}, `{"community_slug":"a"}`, true},
		{"equal string", domain.Filter{Column: "community_slug", Value: "a"}, `{"community_slug":"a"}`, true},
		{"other value", domain.Filter{Column: "community_slug", Value: "a"}, `{"community_slug":"b"}`, false},
		{"missing column", domain.Filter{Column: "community_slug", Value: "a"}, `{"content":"a"}`, false},
		{"null column", domain.Filter{Column: "community_slug", Value: "a"}, `{"community_slug":null}`, false},
		{"number", domain.Filter{Column: "post_id", Value: "7"}, `{"post_id":7}`, true},
		{"broken json", domain.Filter{Column: "community_slug", Value: "a"}, `{`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match([]byte(tt.payload)))
		})
	}
}

func TestHandleOf(t *testing.T) {
	assert.Equal(t, "ada", domain.HandleOf("ada@example.com"))
	assert.Equal(t, "ada", domain.Viewer{Email: "ada@example.com"}.Handle())
	assert.Equal(t, "plain", domain.HandleOf("plain"))
}
