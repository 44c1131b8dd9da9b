package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/vendordesk/internal/client/imagex"
	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/common"
)

const productsUsage = "products list [page] | mine [page] | search <query> | featured [n] | show <id> | slug <slug> | related <id> [n] | add | edit <id> | delete <id> | inventory <id> <qty> [variant=qty...] | filter key=value... | reset"

// Products dispatches the catalog subcommands.
func (a *App) Products(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage(productsUsage)
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "list", "ls":
		f, err := pageFilter(rest)
		if err != nil {
			return err
		}
		page, err := a.products.FetchProducts(ctx, f)
		if err != nil {
			return err
		}
		printPage(page)
		return nil

	case "mine":
		f, err := pageFilter(rest)
		if err != nil {
			return err
		}
		page, err := a.products.FetchVendorProducts(ctx, "", f)
		if err != nil {
			return err
		}
		printPage(page)
		return nil

	case "search":
		if len(rest) == 0 {
			return usage("products search <query>")
		}
		list, err := a.products.Search(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		printProducts(list)
		return nil

	case "featured":
		n, err := optionalCount(rest, 0)
		if err != nil {
			return err
		}
		list, err := a.products.FetchFeatured(ctx, n)
		if err != nil {
			return err
		}
		printProducts(list)
		return nil

	case "show", "slug":
		if len(rest) != 1 {
			return usage("products show <id> | products slug <slug>")
		}
		fetch := a.products.FetchByID
		if sub == "slug" {
			fetch = a.products.FetchBySlug
		}
		p, err := fetch(ctx, rest[0])
		if err != nil {
			return err
		}
		printProduct(p)
		return nil

	case "related":
		if len(rest) == 0 {
			return usage("products related <id> [n]")
		}
		n, err := optionalCount(rest[1:], 0)
		if err != nil {
			return err
		}
		list, err := a.products.FetchRelated(ctx, rest[0], n)
		if err != nil {
			return err
		}
		printProducts(list)
		return nil

	case "add":
		return a.addProduct(ctx)

	case "edit":
		if len(rest) != 1 {
			return usage("products edit <id>")
		}
		return a.editProduct(ctx, rest[0])

	case "delete", "rm":
		if len(rest) != 1 {
			return usage("products delete <id>")
		}
		ok, err := GetConfirm(a.reader, "Delete product "+rest[0]+"?", a.out)
		if err != nil || !ok {
			return err
		}
		if err := a.products.Delete(ctx, rest[0]); err != nil {
			return err
		}
		printlnFn("Product deleted.")
		return nil

	case "inventory", "stock":
		return a.updateInventory(ctx, rest)

	case "filter":
		f, err := parseFilters(rest)
		if err != nil {
			return err
		}
		a.products.SetFilters(f)
		printlnFn("Filters:", describeFilters(a.products.State().Filters))
		return nil

	case "reset":
		a.products.ResetFilters()
		printlnFn("Filters reset.")
		return nil
	}
	return usage(productsUsage)
}

func optionalCount(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: expected a positive number, got %q", common.ErrValidation, args[0])
	}
	return n, nil
}

func pageFilter(args []string) (models.ProductFilters, error) {
	n, err := optionalCount(args, 0)
	if err != nil {
		return models.ProductFilters{}, err
	}
	return models.ProductFilters{Page: n}, nil
}

// parseFilters reads key=value pairs. Recognized keys are search, category,
// min, max, active, featured, sort, page and limit.
func parseFilters(args []string) (models.ProductFilters, error) {
	var f models.ProductFilters
	if len(args) == 0 {
		return f, usage("products filter key=value...")
	}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return f, fmt.Errorf("%w: expected key=value, got %q", common.ErrValidation, arg)
		}
		var err error
		switch strings.ToLower(k) {
		case "search", "q":
			f.Search = v
		case "category":
			f.CategoryID = v
		case "min":
			f.MinPrice, err = optionalFloat(v)
		case "max":
			f.MaxPrice, err = optionalFloat(v)
		case "active":
			f.IsActive, err = optionalBool(v)
		case "featured":
			f.IsFeatured, err = optionalBool(v)
		case "sort":
			f.SortBy, err = parseSort(v)
		case "page":
			f.Page, err = strconv.Atoi(v)
		case "limit":
			f.Limit, err = strconv.Atoi(v)
		default:
			return f, fmt.Errorf("%w: unknown filter %q", common.ErrValidation, k)
		}
		if err != nil {
			return f, fmt.Errorf("%w: filter %s: %v", common.ErrValidation, k, err)
		}
	}
	return f, nil
}

func parseSort(s string) (models.ProductSort, error) {
	switch p := models.ProductSort(s); p {
	case models.SortNewest, models.SortOldest, models.SortPriceAsc, models.SortPriceDesc, models.SortPopular, models.SortRating:
		return p, nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

func describeFilters(f models.ProductFilters) string {
	var parts []string
	for k, v := range f.Query() {
		parts = append(parts, k+"="+strings.Join(v, ","))
	}
	if len(parts) == 0 {
		return "none"
	}
	slices.Sort(parts)
	return strings.Join(parts, " ")
}

func (a *App) addProduct(ctx context.Context) error {
	in, err := a.readProductInput(true)
	if err != nil {
		return err
	}
	p, err := a.products.Create(ctx, in)
	if err != nil {
		return err
	}
	printlnFn("Product created:", p.ID)
	return nil
}

func (a *App) editProduct(ctx context.Context, id string) error {
	printlnFn("Leave a field empty to keep its current value.")
	in, err := a.readProductInput(false)
	if err != nil {
		return err
	}
	p, err := a.products.Update(ctx, id, in)
	if err != nil {
		return err
	}
	printlnFn("Product updated:", p.Name)
	return nil
}

// readProductInput prompts for the product fields. With required set the
// name, price and SKU must be given.
func (a *App) readProductInput(required bool) (models.ProductInput, error) {
	var in models.ProductInput
	ask := func(prompt string) (string, error) {
		return getSimpleText(a.reader, prompt, a.out)
	}

	name, err := ask("Name")
	if err != nil {
		return in, err
	}
	desc, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return in, err
	}
	price, err := ask("Price")
	if err != nil {
		return in, err
	}
	sku, err := ask("SKU")
	if err != nil {
		return in, err
	}
	inventory, err := ask("Inventory")
	if err != nil {
		return in, err
	}
	threshold, err := ask("Low inventory threshold")
	if err != nil {
		return in, err
	}
	category, err := ask("Category id")
	if err != nil {
		return in, err
	}
	tags, err := ask("Tags (comma separated)")
	if err != nil {
		return in, err
	}

	if required && (name == "" || price == "" || sku == "") {
		return in, fmt.Errorf("%w: name, price and SKU are required", common.ErrValidation)
	}

	in.Name = optionalString(name)
	in.Description = optionalString(desc)
	in.SKU = optionalString(sku)
	in.CategoryID = optionalString(category)
	if in.Price, err = optionalFloat(price); err != nil {
		return in, err
	}
	if in.Inventory, err = optionalInt(inventory); err != nil {
		return in, err
	}
	if in.LowInventoryThreshold, err = optionalInt(threshold); err != nil {
		return in, err
	}
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			in.Tags = append(in.Tags, t)
		}
	}
	if in.Price != nil && *in.Price < 0 {
		return in, fmt.Errorf("%w: price must not be negative", common.ErrValidation)
	}
	return in, nil
}

// updateInventory parses "<id> <qty> [variant=qty...]".
func (a *App) updateInventory(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("products inventory <id> <qty> [variant=qty...]")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil || qty < 0 {
		return fmt.Errorf("%w: inventory must be a non-negative number", common.ErrValidation)
	}
	var variants map[string]int
	for _, kv := range args[2:] {
		k, v, ok := strings.Cut(kv, "=")
		n, err := strconv.Atoi(v)
		if !ok || err != nil || n < 0 {
			return fmt.Errorf("%w: expected variant=qty, got %q", common.ErrValidation, kv)
		}
		if variants == nil {
			variants = map[string]int{}
		}
		variants[k] = n
	}
	if err := a.products.UpdateInventory(ctx, args[0], qty, variants); err != nil {
		return err
	}
	printlnFn("Inventory updated.")
	return nil
}

func printPage(page *models.ProductPage) {
	if page == nil {
		return
	}
	printProducts(page.Products)
	printlnFn(fmt.Sprintf("Page %d of %d (%d products)", page.Page, page.Pages, page.Total))
}

func printProducts(list []models.Product) {
	if len(list) == 0 {
		printlnFn("No products.")
		return
	}
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tACTIVE\t")
	for _, p := range list {
		stock := strconv.Itoa(p.Inventory)
		if p.LowOnStock() {
			stock += " (low)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t\n", p.ID, p.Name, price(p.Price, p.SalePrice), stock, p.IsActive)
	}
	tw.Flush()
	printlnFn(strings.TrimRight(b.String(), "\n"))
}

func price(regular float64, sale *float64) string {
	if sale != nil {
		return fmt.Sprintf("%.2f (was %.2f)", *sale, regular)
	}
	return fmt.Sprintf("%.2f", regular)
}

func printProduct(p *models.Product) {
	printlnFn("ID:         ", p.ID)
	printlnFn("Name:       ", p.Name)
	printlnFn("Slug:       ", p.Slug)
	printlnFn("SKU:        ", p.SKU)
	printlnFn("Price:      ", price(p.Price, p.SalePrice))
	stock := strconv.Itoa(p.Inventory)
	if p.LowOnStock() {
		stock += " (low stock)"
	}
	printlnFn("Inventory:  ", stock)
	printlnFn("Active:     ", p.IsActive)
	if p.Category != nil {
		printlnFn("Category:   ", p.Category.Name)
	}
	if len(p.Tags) > 0 {
		printlnFn("Tags:       ", strings.Join(p.Tags, ", "))
	}
	for _, img := range p.Images {
		if img.IsDefault {
			printlnFn("Image:      ", imagex.ProductDetail(img.URL))
		} else {
			printlnFn("Thumbnail:  ", imagex.ProductThumbnail(img.URL))
		}
	}
	for _, v := range p.Variants {
		printlnFn(fmt.Sprintf("Variant:     %s %s %s stock %d", v.ID, v.Name, price(v.Price, v.SalePrice), v.Inventory))
	}
	if p.Description != "" {
		printlnFn()
		printlnFn(p.Description)
	}
}
