package catalog

import (
	"context"
	"testing"

	"ecobrinca/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.NewDB(t, &Material{}, &Video{})
	require.NoError(t, Seed(context.Background(), db, "https://videos.example.com/embed"))
	return db
}

func videoIDs(videos []Video) []string {
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestSeedIsRepeatable(t *testing.T) {
	db := newSeededDB(t)
	require.NoError(t, Seed(context.Background(), db, "https://videos.example.com/embed"))

	materials, err := ListMaterials(context.Background(), db)
	require.NoError(t, err)
	assert.Len(t, materials, len(StarterMaterials))

	videos, err := ListVideos(context.Background(), db)
	require.NoError(t, err)
	assert.Len(t, videos, 5)
}

func TestListMaterialsOrderedByName(t *testing.T) {
	materials, err := ListMaterials(context.Background(), newSeededDB(t))
	require.NoError(t, err)
	require.NotEmpty(t, materials)
	assert.Equal(t, "Balão", materials[0].Name)
}

func TestListVideosNewestFirst(t *testing.T) {
	videos, err := ListVideos(context.Background(), newSeededDB(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "4", "3", "2", "1"}, videoIDs(videos))
	assert.ElementsMatch(t, []string{"7", "6", "5"}, videos[0].MaterialIDs())
}

func TestVideosUsingAnyMaterial(t *testing.T) {
	ctx := context.Background()
	db := newSeededDB(t)

	videos, err := VideosUsingAnyMaterial(ctx, db, []string{"3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, videoIDs(videos))

	videos, err = VideosUsingAnyMaterial(ctx, db, []string{"4,6", " 4 "})
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "4"}, videoIDs(videos))

	videos, err = VideosUsingAnyMaterial(ctx, db, nil)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestSearchVideos(t *testing.T) {
	ctx := context.Background()
	db := newSeededDB(t)

	videos, err := SearchVideos(ctx, db, "FOGUETE")
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, videoIDs(videos))

	videos, err = SearchVideos(ctx, db, "garrafas pet")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, videoIDs(videos))

	videos, err = SearchVideos(ctx, db, "100%")
	require.NoError(t, err)
	assert.Empty(t, videos)

	videos, err = SearchVideos(ctx, db, "   ")
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestGetVideo(t *testing.T) {
	db := newSeededDB(t)

	v, err := GetVideo(context.Background(), db, "2")
	require.NoError(t, err)
	assert.Equal(t, "Jogo da Memória com Tampinhas", v.Title)

	_, err = GetVideo(context.Background(), db, "404")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}
