package userstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestMemoryStore_MergeSemantics(t *testing.T) {
	s := NewMemoryStore("")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a@b.c", Profile{
		Name:     strptr("Alice"),
		Email:    strptr("a@b.c"),
		Image:    strptr("https://img/alice.png"),
		Provider: "google",
	}))

	// second write omits image: stored image must survive the merge
	require.NoError(t, s.Set(ctx, "a@b.c", Profile{
		Name:     strptr("Alice B"),
		Provider: "firebase",
	}))

	rec, err := s.Get(ctx, "a@b.c")
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, "Alice B", rec.Name)
	require.Equal(t, "a@b.c", rec.Email)
	require.Equal(t, "https://img/alice.png", rec.Image)
	require.Equal(t, "firebase", rec.Provider)
}

func TestMemoryStore_CreatedAtPreserved(t *testing.T) {
	s := NewMemoryStore("")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k1", Profile{Provider: "google"}))
	first, err := s.Get(ctx, "k1")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.Set(ctx, "k1", Profile{Name: strptr("X"), Provider: "google"}))
	second, err := s.Get(ctx, "k1")
	require.NoError(t, err)

	require.Equal(t, first.CreatedAt, second.CreatedAt, "createdAt must be set once on first write")
	require.True(t, second.UpdatedAt.After(first.UpdatedAt) || second.UpdatedAt.Equal(first.UpdatedAt))
	require.False(t, second.UpdatedAt.Before(second.CreatedAt))
}

func TestMemoryStore_GetAbsentKey(t *testing.T) {
	s := NewMemoryStore("")
	rec, err := s.Get(context.Background(), "never-written")
	require.NoError(t, err)
	require.Nil(t, rec)
}

func TestMemoryStore_EmptyKeyRejected(t *testing.T) {
	s := NewMemoryStore("")
	err := s.Set(context.Background(), "", Profile{Provider: "google"})
	require.Error(t, err)
	require.Equal(t, KindInvalidArgument, KindOf(err))
}
