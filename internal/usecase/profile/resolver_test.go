package profile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/senuthbros6699-eng/dialect/domain"
	"github.com/senuthbros6699-eng/dialect/internal/backendtest"
	"github.com/senuthbros6699-eng/dialect/internal/usecase/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIssuesOneLookup(t *testing.T) {
	b := backendtest.New()
	b.SeedProfile(domain.Profile{Username: "ada", AvatarURL: "https://cdn/ada.png"})
	r := profile.NewResolver(b.ProfileRepository(), "")

	posts := []domain.Post{{Author: "ada"}, {Author: "bob"}, {Author: "ada"}, {Author: "bob"}}
	dir, err := r.Resolve(context.Background(), posts)
	require.NoError(t, err)

	assert.Equal(t, 1, b.Calls(backendtest.OpProfileBatch))
	assert.Equal(t, "https://cdn/ada.png", dir.AvatarURL("ada"))
	assert.Equal(t, 1, dir.Len())
}

func TestSyntheticAvatarIsDeterministic(t *testing.T) {
	b := backendtest.New()
	r := profile.NewResolver(b.ProfileRepository(), "")

	dir, err := r.Resolve(context.Background(), []domain.Post{{Author: "bob"}, {Author: "bob"}})
	require.NoError(t, err)

	first := dir.AvatarURL("bob")
	assert.Equal(t, first, dir.AvatarURL("bob"))
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=bob", first)
	assert.Equal(t, first, r.SyntheticAvatar("bob"))
	assert.NotEqual(t, first, dir.AvatarURL("cyd"))
}

func TestProfileWithoutAvatarFallsBack(t *testing.T) {
	b := backendtest.New()
	b.SeedProfile(domain.Profile{Username: "ada", BannerURL: "https://cdn/banner.png"})
	r := profile.NewResolver(b.ProfileRepository(), "https://avatars.test/svg")

	dir, err := r.ResolveHandles(context.Background(), []string{"ada"})
	require.NoError(t, err)
	assert.Equal(t, "https://avatars.test/svg?seed=ada", dir.AvatarURL("ada"))
	p, ok := dir.Profile("ada")
	assert.True(t, ok)
	assert.Equal(t, "https://cdn/banner.png", p.BannerURL)
}

func TestResolveEmptyMakesNoRequest(t *testing.T) {
	b := backendtest.New()
	r := profile.NewResolver(b.ProfileRepository(), "")

	dir, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, b.Calls(backendtest.OpProfileBatch))
	assert.Zero(t, dir.Len())
}

func TestResolveFailureStillFallsBack(t *testing.T) {
	b := backendtest.New()
	b.Fail(backendtest.OpProfileBatch, errors.New("down"))
	r := profile.NewResolver(b.ProfileRepository(), "")

	dir, err := r.ResolveHandles(context.Background(), []string{"ada"})
	assert.Error(t, err)
	assert.Equal(t, r.SyntheticAvatar("ada"), dir.AvatarURL("ada"))
}

func TestZeroDirectory(t *testing.T) {
	var dir profile.Directory
	assert.Equal(t, profile.DefaultAvatarBaseURL+"?seed=ada", dir.AvatarURL("ada"))
}
