package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/avillega/shoprec/store"
	"github.com/avillega/shoprec/vecindex"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed every catalog product into the vector index",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile, err := loadProfile()
		if err != nil {
			panic(err)
		}
		if !instanceProfile.IsEmbeddingEnabled() {
			slog.Error("no embedding endpoint configured, set SHOPREC_AI_EMBEDDING_API_KEY")
			return
		}

		ctx := context.Background()
		storeInstance, err := openStore(ctx, instanceProfile)
		if err != nil {
			slog.Error("failed to open store", "error", err)
			return
		}
		defer storeInstance.Close()

		embedder, err := vecindex.NewEmbedder(vecindex.NewEmbeddingConfigFromProfile(instanceProfile))
		if err != nil {
			slog.Error("failed to create embedder", "error", err)
			return
		}
		index := vecindex.NewIndex(embedder, storeInstance, instanceProfile.EmbeddingModel)

		products, err := storeInstance.ListProducts(ctx, &store.FindProduct{})
		if err != nil {
			slog.Error("failed to list products", "error", err)
			return
		}

		total := 0
		for _, product := range products {
			err := index.Upsert(ctx, &vecindex.Document{
				ProductID:   product.ID,
				Text:        product.Name,
				Category:    product.CategoryName,
				Subcategory: product.SubcategoryName,
			})
			if err != nil {
				slog.Error("failed to index product", "product", product.Name, "error", err)
				continue
			}
			total++
		}
		fmt.Printf("Indexed %d of %d products\n", total, len(products))
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
