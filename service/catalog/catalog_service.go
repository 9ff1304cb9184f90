package catalog

import (
	"errors"

	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/core/apperr"
	catalogEntity "github.com/skandal1st/loungepos/model/entity/catalog"
	catalogRepo "github.com/skandal1st/loungepos/model/repository/catalog"
)

// CatalogService wraps catalog CRUD with the validation the repositories
// don't do: category references, ingredient/product role separation, and
// recipe (BOM) editing with cost recomputation.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ProductInput carries create/update fields. Pointer fields distinguish
// "not sent" from zero on update.
type ProductInput struct {
	CategoryID        *uint    `json:"category_id"`
	Name              *string  `json:"name"`
	Price             *float64 `json:"price"`
	CostPrice         *float64 `json:"cost_price"`
	Quantity          *float64 `json:"quantity"`
	Unit              *string  `json:"unit"`
	TrackInventory    *bool    `json:"track_inventory"`
	IsComposite       *bool    `json:"is_composite"`
	OutputAmount      *float64 `json:"output_amount"`
	RecipeDescription *string  `json:"recipe_description"`
	MinQuantity       *float64 `json:"min_quantity"`
}

// RecipeLinkInput is one proposed BOM edge.
type RecipeLinkInput struct {
	IngredientID uint    `json:"ingredient_id"`
	Amount       float64 `json:"amount"`
}

func (s *CatalogService) repo() *catalogRepo.CatalogRepository {
	return catalogRepo.GetCatalogRepository(s.db)
}

// --- categories ---

func (s *CatalogService) Categories(tenantID uint) ([]catalogEntity.Category, error) {
	cats, err := s.repo().Categories(tenantID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return cats, nil
}

func (s *CatalogService) CreateCategory(tenantID uint, name, color string, sortOrder int) (*catalogEntity.Category, error) {
	if name == "" {
		return nil, apperr.Validation("category name is required")
	}
	if color == "" {
		color = "#6366f1"
	}
	cat := &catalogEntity.Category{TenantID: tenantID, Name: name, Color: color, SortOrder: sortOrder, Active: true}
	if err := s.repo().CreateCategory(cat); err != nil {
		return nil, apperr.Persistence(err)
	}
	return cat, nil
}

func (s *CatalogService) UpdateCategory(tenantID, id uint, name, color string, sortOrder *int) (*catalogEntity.Category, error) {
	cat, err := s.repo().CategoryByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Persistence(err)
	}
	if name != "" {
		cat.Name = name
	}
	if color != "" {
		cat.Color = color
	}
	if sortOrder != nil {
		cat.SortOrder = *sortOrder
	}
	if err := s.repo().UpdateCategory(cat); err != nil {
		return nil, apperr.Persistence(err)
	}
	return cat, nil
}

func (s *CatalogService) DeleteCategory(tenantID, id uint) error {
	if err := s.repo().DeactivateCategory(tenantID, id); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

// --- products ---

// ProductView is a product with its recipe expanded and, for composites,
// the sellable portion count the current ingredient stock supports.
type ProductView struct {
	catalogEntity.Product
	Ingredients              []RecipeLinkView `json:"ingredients"`
	AvailableFromIngredients *int             `json:"available_from_ingredients,omitempty"`
}

// RecipeLinkView is a BOM edge joined with its ingredient's current state.
type RecipeLinkView struct {
	catalogEntity.ProductIngredient
	IngredientName     string  `json:"ingredient_name"`
	IngredientUnit     string  `json:"ingredient_unit"`
	IngredientCost     float64 `json:"ingredient_cost"`
	IngredientQuantity float64 `json:"ingredient_quantity"`
}

func (s *CatalogService) Products(tenantID uint) ([]ProductView, error) {
	products, err := s.repo().Products(tenantID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		view, err := s.expand(tenantID, &products[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *CatalogService) Product(tenantID, id uint) (*ProductView, error) {
	p, err := s.repo().ActiveProductByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Persistence(err)
	}
	if p.IsIngredient {
		return nil, apperr.NotFound("product not found")
	}
	return s.expand(tenantID, p)
}

func (s *CatalogService) expand(tenantID uint, p *catalogEntity.Product) (*ProductView, error) {
	links, err := s.repo().BOMLinks(tenantID, p.ID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	view := &ProductView{Product: *p, Ingredients: make([]RecipeLinkView, 0, len(links))}
	for _, link := range links {
		ing, err := s.repo().ProductByID(tenantID, link.IngredientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, apperr.Persistence(err)
		}
		view.Ingredients = append(view.Ingredients, RecipeLinkView{
			ProductIngredient:  link,
			IngredientName:     ing.Name,
			IngredientUnit:     ing.Unit,
			IngredientCost:     ing.CostPrice,
			IngredientQuantity: ing.Quantity,
		})
	}
	if p.IsComposite && len(view.Ingredients) > 0 {
		available, err := s.repo().AvailableFromIngredients(tenantID, p)
		if err != nil {
			return nil, apperr.Persistence(err)
		}
		view.AvailableFromIngredients = &available
	}
	return view, nil
}

// CreateProduct adds a sellable catalog row.
func (s *CatalogService) CreateProduct(tenantID uint, in ProductInput) (*catalogEntity.Product, error) {
	if in.Name == nil || *in.Name == "" || in.CategoryID == nil {
		return nil, apperr.Validation("name and category are required")
	}
	if _, err := s.repo().CategoryByID(tenantID, *in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Persistence(err)
	}

	p := &catalogEntity.Product{
		TenantID:       tenantID,
		CategoryID:     *in.CategoryID,
		Name:           *in.Name,
		Unit:           "pcs",
		TrackInventory: true,
		OutputAmount:   1,
		Active:         true,
	}
	applyInput(p, in)
	if err := s.repo().CreateProduct(p); err != nil {
		return nil, apperr.Persistence(err)
	}
	return p, nil
}

// CreateIngredient adds a raw-material row. Ingredients are never sold, so
// price is pinned to zero regardless of input.
func (s *CatalogService) CreateIngredient(tenantID uint, in ProductInput) (*catalogEntity.Product, error) {
	if in.Name == nil || *in.Name == "" || in.CategoryID == nil {
		return nil, apperr.Validation("name and category are required")
	}
	if _, err := s.repo().CategoryByID(tenantID, *in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, apperr.Persistence(err)
	}

	p := &catalogEntity.Product{
		TenantID:       tenantID,
		CategoryID:     *in.CategoryID,
		Name:           *in.Name,
		Unit:           "g",
		TrackInventory: true,
		IsIngredient:   true,
		OutputAmount:   1,
		Active:         true,
	}
	applyInput(p, in)
	p.Price = 0
	if err := s.repo().CreateProduct(p); err != nil {
		return nil, apperr.Persistence(err)
	}
	return p, nil
}

// UpdateProduct patches fields that were sent, leaving the rest untouched.
func (s *CatalogService) UpdateProduct(tenantID, id uint, in ProductInput) (*catalogEntity.Product, error) {
	p, err := s.repo().ProductByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Persistence(err)
	}
	if in.CategoryID != nil {
		if _, err := s.repo().CategoryByID(tenantID, *in.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("category not found")
			}
			return nil, apperr.Persistence(err)
		}
	}
	applyInput(p, in)
	if p.IsIngredient {
		p.Price = 0
	}
	if err := s.repo().UpdateProduct(p); err != nil {
		return nil, apperr.Persistence(err)
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(tenantID, id uint) error {
	if err := s.repo().DeactivateProduct(tenantID, id); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (s *CatalogService) Ingredients(tenantID uint) ([]catalogEntity.Product, error) {
	ingredients, err := s.repo().Ingredients(tenantID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return ingredients, nil
}

func (s *CatalogService) Ingredient(tenantID, id uint) (*catalogEntity.Product, error) {
	p, err := s.repo().ActiveProductByID(tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("ingredient not found")
		}
		return nil, apperr.Persistence(err)
	}
	if !p.IsIngredient {
		return nil, apperr.NotFound("ingredient not found")
	}
	return p, nil
}

// LowStock returns tracked sellable products at or below their minimum.
func (s *CatalogService) LowStock(tenantID uint) ([]catalogEntity.Product, error) {
	products, err := s.repo().LowStock(tenantID)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	return products, nil
}

// SetRecipe replaces a product's BOM, recomputes its cost price from the
// ingredient costs divided by output amount, and flips is_composite to
// match whether any links remain. Cycles through the BOM graph are rejected
// up front: a recipe must stay a DAG or cost resolution would never
// terminate.
func (s *CatalogService) SetRecipe(tenantID, productID uint, links []RecipeLinkInput, outputAmount *float64, recipeDescription *string) (*catalogEntity.Product, error) {
	p, err := s.repo().ProductByID(tenantID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Persistence(err)
	}

	ingredients := make([]*catalogEntity.Product, 0, len(links))
	for _, link := range links {
		if link.Amount <= 0 {
			return nil, apperr.Validation("ingredient amount must be positive")
		}
		if link.IngredientID == productID {
			return nil, apperr.Validation("a product cannot be its own ingredient")
		}
		ing, err := s.repo().ProductByID(tenantID, link.IngredientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("ingredient %d not found", link.IngredientID)
			}
			return nil, apperr.Persistence(err)
		}
		ingredients = append(ingredients, ing)
	}

	if err := s.checkAcyclic(tenantID, productID, links); err != nil {
		return nil, err
	}

	outAmt := p.OutputAmount
	if outputAmount != nil && *outputAmount > 0 {
		outAmt = *outputAmount
	}
	if outAmt <= 0 {
		outAmt = 1
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo().WithTx(tx)

		rows := make([]catalogEntity.ProductIngredient, 0, len(links))
		for _, link := range links {
			rows = append(rows, catalogEntity.ProductIngredient{
				ProductID:    productID,
				IngredientID: link.IngredientID,
				Amount:       link.Amount,
			})
		}
		if err := repo.ReplaceBOM(productID, rows); err != nil {
			return err
		}

		hasIngredients := len(links) > 0
		if hasIngredients {
			var total float64
			for i, link := range links {
				total += link.Amount * ingredients[i].CostPrice
			}
			p.CostPrice = total / outAmt
		}
		p.IsComposite = hasIngredients
		p.OutputAmount = outAmt
		if recipeDescription != nil {
			p.RecipeDescription = *recipeDescription
		}
		return repo.UpdateProduct(p)
	})
	if err != nil {
		return nil, apperr.As(err)
	}
	return p, nil
}

// checkAcyclic walks the tenant's BOM graph with the proposed links in
// place of the product's current ones. Reaching the product again means
// the edit would close a cycle.
func (s *CatalogService) checkAcyclic(tenantID, productID uint, links []RecipeLinkInput) error {
	var all []catalogEntity.ProductIngredient
	err := s.db.
		Joins("JOIN products ON products.id = product_ingredients.product_id AND products.tenant_id = ?", tenantID).
		Find(&all).Error
	if err != nil {
		return apperr.Persistence(err)
	}

	adjacent := make(map[uint][]uint)
	for _, edge := range all {
		if edge.ProductID == productID {
			continue // replaced by the proposal
		}
		adjacent[edge.ProductID] = append(adjacent[edge.ProductID], edge.IngredientID)
	}
	for _, link := range links {
		adjacent[productID] = append(adjacent[productID], link.IngredientID)
	}

	visited := make(map[uint]bool)
	var stack []uint
	stack = append(stack, adjacent[productID]...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == productID {
			return apperr.Validation("recipe would create an ingredient cycle")
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		stack = append(stack, adjacent[node]...)
	}
	return nil
}

func applyInput(p *catalogEntity.Product, in ProductInput) {
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.Name != nil && *in.Name != "" {
		p.Name = *in.Name
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.CostPrice != nil {
		p.CostPrice = *in.CostPrice
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.Unit != nil && *in.Unit != "" {
		p.Unit = *in.Unit
	}
	if in.TrackInventory != nil {
		p.TrackInventory = *in.TrackInventory
	}
	if in.IsComposite != nil {
		p.IsComposite = *in.IsComposite
	}
	if in.OutputAmount != nil && *in.OutputAmount > 0 {
		p.OutputAmount = *in.OutputAmount
	}
	if in.RecipeDescription != nil {
		p.RecipeDescription = *in.RecipeDescription
	}
	if in.MinQuantity != nil {
		p.MinQuantity = *in.MinQuantity
	}
}
