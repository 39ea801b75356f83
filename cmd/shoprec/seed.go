package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avillega/shoprec/store"
)

type seedCategory struct {
	name          string
	description   string
	subcategories []seedSubcategory
}

type seedSubcategory struct {
	name        string
	description string
}

var seedShopNames = []string{
	"Main Shop", "Apple Store", "Plaza Central",
	"Tech Store", "Fashion Mall", "Bookstore",
}

var seedCategories = []seedCategory{
	{"Climatization", "Category for all climatization products", []seedSubcategory{
		{"Air Conditioners", "Category for all air conditioners"},
		{"Heaters", "Category for all heaters"},
		{"Fans", "Category for all fans"},
	}},
	{"Electronics", "Category for all electronic products", []seedSubcategory{
		{"Smartphones", "Category for all smartphones"},
		{"Laptops", "Category for all laptops"},
		{"Tablets", "Category for all tablets"},
	}},
	{"Audio & Video", "Category for all audio and video products", []seedSubcategory{
		{"Headphones", "Category for all headphones"},
		{"Speakers", "Category for all speakers"},
		{"Televisions", "Category for all televisions"},
		{"Cables", "Category for all cables"},
	}},
	{"Clothing", "Category for all clothing products", []seedSubcategory{
		{"T-Shirts", "Category for all t-shirts"},
		{"Pants", "Category for all pants"},
		{"Shoes", "Category for all shoes"},
	}},
	{"Books", "Category for all book products", []seedSubcategory{
		{"Fiction", "Category for all fiction books"},
		{"Textbooks", "Category for all textbooks"},
		{"eBooks", "Category for all ebooks"},
	}},
	{"Home & Garden", "Category for all home and garden products", []seedSubcategory{
		{"Furniture", "Category for all furniture"},
		{"Tools", "Category for all tools"},
		{"Plants", "Category for all plants"},
	}},
	{"Gaming", "Category for all gaming products", []seedSubcategory{
		{"Consoles", "Category for all consoles"},
		{"Games", "Category for all games"},
		{"Accessories", "Category for all gaming accessories"},
	}},
	{"Sports", "Category for all sports products", []seedSubcategory{
		{"Fitness", "Category for all fitness products"},
		{"Sportswear", "Category for all sports clothing"},
		{"Equipment", "Category for all sports equipment"},
	}},
	{"Photography", "Category for all photography products", []seedSubcategory{
		{"Cameras", "Category for all cameras"},
		{"Lenses", "Category for all lenses"},
		{"Camera Accessories", "Category for all camera accessories"},
	}},
}

var seedProductNames = map[string][]string{
	"Smartphones":      {"iPhone 13", "Samsung Galaxy S21", "Google Pixel 6", "OnePlus 9"},
	"Laptops":          {"MacBook Pro", "Dell XPS 13", "Lenovo ThinkPad", "HP Spectre"},
	"Tablets":          {"iPad Pro", "Samsung Galaxy Tab", "Microsoft Surface"},
	"Air Conditioners": {"Samsung Split", "LG Inverter", "Carrier Window"},
	"Heaters":          {"Electric Heater Pro", "Gas Heater Plus", "Infrared Heater"},
	"Fans":             {"Standing Fan Plus", "Ceiling Fan Pro", "Desktop Fan"},
}

var seedFirstNames = []string{
	"Ana", "Bruno", "Carla", "Diego", "Elena", "Franco",
	"Gabriela", "Hugo", "Irene", "Julian", "Karen", "Lucas",
}

var seedLastNames = []string{
	"Alvarez", "Benitez", "Castro", "Diaz", "Espinoza", "Fernandez",
	"Gomez", "Herrera", "Ibanez", "Juarez", "Klein", "Lopez",
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with demo catalog data",
	Run: func(cmd *cobra.Command, _ []string) {
		instanceProfile, err := loadProfile()
		if err != nil {
			panic(err)
		}

		ctx := context.Background()
		storeInstance, err := openStore(ctx, instanceProfile)
		if err != nil {
			slog.Error("failed to open store", "error", err)
			return
		}
		defer storeInstance.Close()

		numClients, _ := cmd.Flags().GetInt("clients")
		numProducts, _ := cmd.Flags().GetInt("products")
		numSales, _ := cmd.Flags().GetInt("sales")
		withSales, _ := cmd.Flags().GetBool("with-sales")
		seed, _ := cmd.Flags().GetInt64("seed")

		if err := runSeed(ctx, storeInstance, &seedOptions{
			Clients:   numClients,
			Products:  numProducts,
			Sales:     numSales,
			WithSales: withSales,
			Rand:      rand.New(rand.NewSource(seed)),
		}); err != nil {
			slog.Error("failed to seed database", "error", err)
			return
		}
		fmt.Println("Database population complete")
	},
}

type seedOptions struct {
	Clients int
	// Products is the number of products per subcategory.
	Products  int
	Sales     int
	WithSales bool
	Rand      *rand.Rand
}

func runSeed(ctx context.Context, storeInstance *store.Store, opts *seedOptions) error {
	rng := opts.Rand

	shops := make([]*store.Shop, 0, len(seedShopNames))
	for _, name := range seedShopNames {
		shop, err := storeInstance.CreateShop(ctx, &store.Shop{
			Name:        name,
			Description: fmt.Sprintf("Demo shop %s", name),
			LocalNumber: fmt.Sprintf("%d", 100+rng.Intn(900)),
		})
		if err != nil {
			return err
		}
		shops = append(shops, shop)
	}
	fmt.Printf("Created %d shops\n", len(shops))

	products := []*store.Product{}
	for _, categoryData := range seedCategories {
		category, err := storeInstance.CreateCategory(ctx, &store.Category{
			Name:        categoryData.name,
			Description: categoryData.description,
		})
		if err != nil {
			return err
		}
		for _, subcategoryData := range categoryData.subcategories {
			subcategory, err := storeInstance.CreateSubCategory(ctx, &store.SubCategory{
				Name:        subcategoryData.name,
				Description: subcategoryData.description,
				CategoryID:  category.ID,
			})
			if err != nil {
				return err
			}
			for i := 0; i < opts.Products; i++ {
				product, err := storeInstance.CreateProduct(ctx, &store.Product{
					Name:          seedProductName(rng, subcategory.Name, i),
					Description:   fmt.Sprintf("Demo product in %s / %s", category.Name, subcategory.Name),
					Price:         math.Round(rng.Float64()*99000+1000) / 100,
					Stock:         int32(rng.Intn(101)),
					CategoryID:    category.ID,
					SubcategoryID: subcategory.ID,
				})
				if err != nil {
					return err
				}
				products = append(products, product)
			}
		}
	}
	fmt.Printf("Created %d categories and %d products\n", len(seedCategories), len(products))

	clients := make([]*store.Client, 0, opts.Clients)
	genders := []store.Gender{store.GenderMale, store.GenderFemale, store.GenderOther}
	for i := 0; i < opts.Clients; i++ {
		first := seedFirstNames[rng.Intn(len(seedFirstNames))]
		last := seedLastNames[rng.Intn(len(seedLastNames))]
		name := fmt.Sprintf("%s %s %d", first, last, i)
		client, err := storeInstance.CreateClient(ctx, &store.Client{
			Name:        name,
			DisplayName: fmt.Sprintf("%s %s", first, last),
			Email:       strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@store.com",
			Gender:      genders[rng.Intn(len(genders))],
			IsActive:    rng.Intn(3) != 0,
		})
		if err != nil {
			return err
		}
		clients = append(clients, client)
	}
	fmt.Printf("Created %d clients\n", len(clients))

	if !opts.WithSales || len(products) == 0 || len(clients) == 0 {
		return nil
	}

	methods := []store.PaymentMethod{store.PaymentCash, store.PaymentCredit, store.PaymentDebit, store.PaymentTransfer}
	for i := 0; i < opts.Sales; i++ {
		client := clients[rng.Intn(len(clients))]
		shop := shops[rng.Intn(len(shops))]
		saleProducts := pickSaleProducts(rng, products)

		total := 0.0
		productIDs := make([]int32, 0, len(saleProducts))
		for _, product := range saleProducts {
			total += product.Price
			productIDs = append(productIDs, product.ID)
		}

		if _, err := storeInstance.CreateSale(ctx, &store.Sale{
			ClientID:      client.ID,
			ShopID:        shop.ID,
			Total:         math.Round(total*100) / 100,
			PaymentMethod: methods[rng.Intn(len(methods))],
		}, productIDs); err != nil {
			return err
		}
	}
	fmt.Printf("Created %d sales\n", opts.Sales)
	return nil
}

func seedProductName(rng *rand.Rand, subcategory string, ordinal int) string {
	names, ok := seedProductNames[subcategory]
	if !ok {
		return fmt.Sprintf("%s Item %d", subcategory, ordinal+1)
	}
	name := names[rng.Intn(len(names))]
	if rng.Float64() < 0.5 {
		variants := []string{"Pro", "Plus", "Max", "Ultra"}
		name += " " + variants[rng.Intn(len(variants))]
	}
	if rng.Float64() < 0.3 {
		years := []string{"2023", "2024"}
		name += " " + years[rng.Intn(len(years))]
	}
	return fmt.Sprintf("%s #%d", name, ordinal+1)
}

// pickSaleProducts biases sales toward a single category, mirroring how real
// baskets cluster, with an occasional cross-category extra.
func pickSaleProducts(rng *rand.Rand, products []*store.Product) []*store.Product {
	byCategory := map[int32][]*store.Product{}
	categoryIDs := []int32{}
	for _, product := range products {
		if _, ok := byCategory[product.CategoryID]; !ok {
			categoryIDs = append(categoryIDs, product.CategoryID)
		}
		byCategory[product.CategoryID] = append(byCategory[product.CategoryID], product)
	}

	picked := []*store.Product{}
	if rng.Float64() < 0.7 && len(categoryIDs) > 0 {
		categoryProducts := byCategory[categoryIDs[rng.Intn(len(categoryIDs))]]
		count := 1 + rng.Intn(min(3, len(categoryProducts)))
		for _, i := range rng.Perm(len(categoryProducts))[:count] {
			picked = append(picked, categoryProducts[i])
		}
		if rng.Float64() < 0.3 {
			picked = append(picked, products[rng.Intn(len(products))])
		}
	} else {
		count := 1 + rng.Intn(min(5, len(products)))
		for _, i := range rng.Perm(len(products))[:count] {
			picked = append(picked, products[i])
		}
	}
	return picked
}

func init() {
	seedCmd.Flags().Int("clients", 50, "number of clients to create")
	seedCmd.Flags().Int("products", 4, "number of products per subcategory")
	seedCmd.Flags().Bool("with-sales", false, "also create demo sales")
	seedCmd.Flags().Int("sales", 200, "number of sales to create")
	seedCmd.Flags().Int64("seed", 42, "random seed for reproducible data")

	rootCmd.AddCommand(seedCmd)
}
