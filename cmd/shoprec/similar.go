package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/avillega/shoprec/recommend"
	"github.com/avillega/shoprec/vecindex"
)

var similarCmd = &cobra.Command{
	Use:   "similar <query>",
	Short: "Search the vector index for products similar to a query",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
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
		service := recommend.NewService(storeInstance, index, nil)

		category, _ := cmd.Flags().GetString("category")
		sameCategory, _ := cmd.Flags().GetBool("same-category")
		topN, _ := cmd.Flags().GetInt("n")

		results, err := service.FindSimilar(ctx, &recommend.FindSimilarOptions{
			Query:        args[0],
			TopN:         topN,
			Category:     category,
			AddCondition: category != "",
			SameCategory: &sameCategory,
		})
		if err != nil {
			slog.Error("failed to search similar products", "error", err)
			return
		}

		if len(results) == 0 {
			fmt.Println("No similar products found")
			return
		}
		for _, result := range results {
			fmt.Printf("%-40s %-20s distance=%.4f\n", result.Product.Name, result.Product.CategoryName, result.Distance)
		}
	},
}

func init() {
	similarCmd.Flags().String("category", "", "filter by product category")
	similarCmd.Flags().Bool("same-category", true, "keep results inside the category filter")
	similarCmd.Flags().Int("n", 4, "number of results")

	rootCmd.AddCommand(similarCmd)
}
