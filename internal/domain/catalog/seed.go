package catalog

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StarterMaterials is the household material list the app launched with.
var StarterMaterials = []Material{
	{ID: "1", Name: "Papelão", Emoji: "📦"},
	{ID: "2", Name: "Tampinha", Emoji: "🧃"},
	{ID: "3", Name: "Garrafa PET", Emoji: "🥤"},
	{ID: "4", Name: "Balão", Emoji: "🎈"},
	{ID: "5", Name: "Papel", Emoji: "✂️"},
	{ID: "6", Name: "Linha", Emoji: "🧵"},
	{ID: "7", Name: "Rolo de Papel", Emoji: "🧻"},
	{ID: "8", Name: "Lata", Emoji: "🥫"},
	{ID: "9", Name: "CD/DVD", Emoji: "💿"},
	{ID: "10", Name: "Caixa de Ovos", Emoji: "🥚"},
}

type starterVideo struct {
	video     Video
	materials []string
}

var starterVideos = []starterVideo{
	{Video{ID: "1", Title: "Robô de Papelão", RecommendedAge: "4-8 anos", DurationMinutes: 15,
		Description: "Crie um robô incrível usando caixas de papelão e materiais simples!"}, []string{"1", "2", "5"}},
	{Video{ID: "2", Title: "Jogo da Memória com Tampinhas", RecommendedAge: "3-10 anos", DurationMinutes: 10,
		Description: "Um jogo educativo e divertido usando tampinhas coloridas!"}, []string{"2", "5"}},
	{Video{ID: "3", Title: "Vaso de Flores Ecológico", RecommendedAge: "5-12 anos", DurationMinutes: 20,
		Description: "Transforme garrafas PET em lindos vasos para suas plantas!"}, []string{"3", "5"}},
	{Video{ID: "4", Title: "Foguete Espacial", RecommendedAge: "6-10 anos", DurationMinutes: 25,
		Description: "Construa um foguete que realmente voa usando materiais recicláveis!"}, []string{"1", "4", "5"}},
	{Video{ID: "5", Title: "Binóculos de Aventureiro", RecommendedAge: "4-9 anos", DurationMinutes: 12,
		Description: "Crie binóculos funcionais para as aventuras do seu pequeno explorador!"}, []string{"7", "6", "5"}},
}

// Seed inserts the starter catalog. Rows that already exist are left alone,
// so it can run on every deploy.
func Seed(ctx context.Context, db *gorm.DB, videoURL string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		materials := append([]Material(nil), StarterMaterials...)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&materials).Error; err != nil {
			return fmt.Errorf("seed materials: %w", err)
		}

		byID := make(map[string]Material, len(materials))
		for _, m := range materials {
			byID[m.ID] = m
		}

		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, sv := range starterVideos {
			v := sv.video
			v.VideoURL = videoURL
			v.Thumbnail = "https://placehold.co/300x200/green/white?text=" + v.ID
			v.CreatedAt = base.Add(time.Duration(i) * time.Hour)
			for _, id := range sv.materials {
				v.Materials = append(v.Materials, byID[id])
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&v).Error; err != nil {
				return fmt.Errorf("seed video %s: %w", v.ID, err)
			}
		}
		return nil
	})
}
