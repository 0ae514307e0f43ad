package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var ErrVideoNotFound = errors.New("video not found")

// Each query is a plain function of its filter; callers re-run it when the
// filter changes.

func ListMaterials(ctx context.Context, db *gorm.DB) ([]Material, error) {
	var materials []Material
	err := db.WithContext(ctx).Order("name ASC").Find(&materials).Error
	return materials, err
}

// ListVideos returns all videos, newest first.
func ListVideos(ctx context.Context, db *gorm.DB) ([]Video, error) {
	var videos []Video
	err := db.WithContext(ctx).
		Preload("Materials").
		Order("created_at DESC").
		Find(&videos).Error
	return videos, err
}

// VideosUsingAnyMaterial returns videos that use at least one of
// materialIDs, newest first. No ids means no videos.
func VideosUsingAnyMaterial(ctx context.Context, db *gorm.DB, materialIDs []string) ([]Video, error) {
	ids := cleanIDs(materialIDs)
	if len(ids) == 0 {
		return []Video{}, nil
	}

	var videos []Video
	err := db.WithContext(ctx).
		Preload("Materials").
		Where("id IN (?)", db.Table("video_materials").Select("video_id").Where("material_id IN ?", ids)).
		Order("created_at DESC").
		Find(&videos).Error
	return videos, err
}

// SearchVideos matches q against title and description, case-insensitive.
// A blank query returns nothing.
func SearchVideos(ctx context.Context, db *gorm.DB, q string) ([]Video, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Video{}, nil
	}
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"

	var videos []Video
	err := db.WithContext(ctx).
		Preload("Materials").
		Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("created_at DESC").
		Find(&videos).Error
	return videos, err
}

func GetVideo(ctx context.Context, db *gorm.DB, id string) (Video, error) {
	var video Video
	err := db.WithContext(ctx).Preload("Materials").Where("id = ?", id).First(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Video{}, ErrVideoNotFound
	}
	return video, err
}

func cleanIDs(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
