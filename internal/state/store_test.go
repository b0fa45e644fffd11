package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "posted_links.json"), filepath.Join(dir, "metrics.json"), nil)
	return s, dir
}

func TestStoreRoundTrip(t *testing.T) {
	s, _ := testStore(t)

	st := NewPostedState()
	now := time.Now().UTC().Truncate(time.Second)
	st.AddPost("https://example.com/a", Fingerprint("A big Kubernetes story", 6), "urn:li:share:9", "digest", now)
	require.NoError(t, s.SaveState(st))

	loaded := s.LoadState()
	assert.True(t, loaded.HasLink("https://example.com/a"))
	assert.Equal(t, "urn:li:share:9", loaded.LastPostID)
	assert.Equal(t, "digest", loaded.LastFormat)
	require.NotNil(t, loaded.LastPostedAt)
	assert.True(t, loaded.LastPostedAt.Equal(now))

	m := NewMetrics()
	m.RecordPost("digest", "example.com", now)
	require.NoError(t, s.SaveMetrics(m))

	lm := s.LoadMetrics()
	assert.Equal(t, 1, lm.TotalPosts)
	assert.Equal(t, 1, lm.FormatsUsed["digest"])
}

func TestStoreMissingFilesYieldDefaults(t *testing.T) {
	s, _ := testStore(t)

	st := s.LoadState()
	assert.Empty(t, st.PostedLinks)
	assert.NotNil(t, st.TopicHashes)

	m := s.LoadMetrics()
	assert.Zero(t, m.TotalPosts)
	assert.NotNil(t, m.FormatsUsed)
}

func TestStoreCorruptFileYieldsDefaults(t *testing.T) {
	s, dir := testStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posted_links.json"), []byte("{not json"), 0o644))

	st := s.LoadState()
	assert.Empty(t, st.PostedLinks)
	assert.NotNil(t, st.TopicHashes)
}

func TestStoreFailureBeforeRenameKeepsPrevious(t *testing.T) {
	s, _ := testStore(t)

	st := NewPostedState()
	st.AddPost("https://example.com/first", "fp1", "id1", "digest", time.Now())
	require.NoError(t, s.SaveState(st))

	s.rename = func(oldpath, newpath string) error {
		return errors.New("simulated crash before rename")
	}
	st.AddPost("https://example.com/second", "fp2", "id2", "digest", time.Now())
	err := s.SaveState(st)
	require.Error(t, err)

	s.rename = os.Rename
	loaded := s.LoadState()
	assert.True(t, loaded.HasLink("https://example.com/first"))
	assert.False(t, loaded.HasLink("https://example.com/second"))
}
