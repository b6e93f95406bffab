package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/videograph/core"
)

func newTestRegistry() *Registry {
	r := NewRegistry(nil)
	r.Register(func() Step { return &fakeStep{name: "transcribe"} }, Metadata{
		Description: "transcribes audio",
		Tags:        []string{"ai", "audio"},
		Requires:    []core.Artifact{core.ArtifactAudio},
		Produces:    []core.Artifact{core.ArtifactTranscript},
	})
	r.Register(func() Step { return &fakeStep{name: "topics"} }, Metadata{
		Description: "builds the topic hierarchy",
		Tags:        []string{"ai"},
		Requires:    []core.Artifact{core.ArtifactTranscript},
		Produces:    []core.Artifact{core.ArtifactTopics},
	})
	return r
}

func TestRegistryCreate(t *testing.T) {
	r := newTestRegistry()

	step, err := r.Create("transcribe")
	require.NoError(t, err)
	assert.Equal(t, "transcribe", step.Name())

	_, err = r.Create("nonexistent")
	var nferr *NotFoundError
	require.ErrorAs(t, err, &nferr)
	assert.Equal(t, "nonexistent", nferr.Name)
}

func TestRegistryCreateReturnsFreshInstances(t *testing.T) {
	r := newTestRegistry()

	a, err := r.Create("topics")
	require.NoError(t, err)
	b, err := r.Create("topics")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := newTestRegistry()
	r.Register(func() Step { return &fakeStep{name: "transcribe"} }, Metadata{
		Description: "replacement",
	})

	meta, err := r.Metadata("transcribe")
	require.NoError(t, err)
	assert.Equal(t, "replacement", meta.Description)
	assert.Len(t, r.Names(), 2)
}

func TestRegistryFind(t *testing.T) {
	r := newTestRegistry()

	assert.Equal(t, []string{"topics", "transcribe"}, r.FindByTag("ai"))
	assert.Equal(t, []string{"transcribe"}, r.FindByTag("audio"))
	assert.Empty(t, r.FindByTag("video"))

	assert.Equal(t, []string{"topics"}, r.FindByInput(core.ArtifactTranscript))
	assert.Equal(t, []string{"transcribe"}, r.FindByOutput(core.ArtifactTranscript))
}
