package catalog

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	catalogEntity "github.com/skandal1st/loungepos/model/entity/catalog"
)

// CatalogRepository reads and writes categories, products, ingredients and
// bill-of-materials links. Every query is tenant-scoped: no unscoped finder
// exists on purpose, tenant_id filtering at this layer is the isolation
// boundary between tenants.
type CatalogRepository struct {
	db *gorm.DB
}

var (
	instances sync.Map // *gorm.DB -> *CatalogRepository
)

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetCatalogRepository returns the shared instance for a DB handle.
func GetCatalogRepository(db *gorm.DB) *CatalogRepository {
	if v, ok := instances.Load(db); ok {
		return v.(*CatalogRepository)
	}
	v, _ := instances.LoadOrStore(db, NewCatalogRepository(db))
	return v.(*CatalogRepository)
}

// WithTx returns a repository bound to the transaction handle.
func (r *CatalogRepository) WithTx(tx *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: tx}
}

// --- categories ---

func (r *CatalogRepository) Categories(tenantID uint) ([]catalogEntity.Category, error) {
	var cats []catalogEntity.Category
	err := r.db.Where("active = ? AND tenant_id = ?", true, tenantID).
		Order("sort_order, id").Find(&cats).Error
	return cats, err
}

func (r *CatalogRepository) CategoryByID(tenantID, id uint) (*catalogEntity.Category, error) {
	var cat catalogEntity.Category
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&cat).Error
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *CatalogRepository) CreateCategory(cat *catalogEntity.Category) error {
	return r.db.Create(cat).Error
}

func (r *CatalogRepository) UpdateCategory(cat *catalogEntity.Category) error {
	return r.db.Save(cat).Error
}

// DeactivateCategory soft-deletes via the active flag.
func (r *CatalogRepository) DeactivateCategory(tenantID, id uint) error {
	return r.db.Model(&catalogEntity.Category{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("active", false).Error
}

// --- products ---

// Products returns active sellable products (ingredients excluded).
func (r *CatalogRepository) Products(tenantID uint) ([]catalogEntity.Product, error) {
	var products []catalogEntity.Product
	err := r.db.Where("active = ? AND is_ingredient = ? AND tenant_id = ?", true, false, tenantID).
		Order("name").Find(&products).Error
	return products, err
}

// Ingredients returns active raw-material rows (is_ingredient = true).
func (r *CatalogRepository) Ingredients(tenantID uint) ([]catalogEntity.Product, error) {
	var products []catalogEntity.Product
	err := r.db.Where("active = ? AND is_ingredient = ? AND tenant_id = ?", true, true, tenantID).
		Order("name").Find(&products).Error
	return products, err
}

// ProductByID finds any product row (sellable or ingredient, active or not).
func (r *CatalogRepository) ProductByID(tenantID, id uint) (*catalogEntity.Product, error) {
	var p catalogEntity.Product
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ActiveProductByID finds an active product row of either kind.
func (r *CatalogRepository) ActiveProductByID(tenantID, id uint) (*catalogEntity.Product, error) {
	var p catalogEntity.Product
	err := r.db.Where("id = ? AND active = ? AND tenant_id = ?", id, true, tenantID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepository) CreateProduct(p *catalogEntity.Product) error {
	return r.db.Create(p).Error
}

func (r *CatalogRepository) UpdateProduct(p *catalogEntity.Product) error {
	return r.db.Save(p).Error
}

// DeactivateProduct soft-deletes via the active flag.
func (r *CatalogRepository) DeactivateProduct(tenantID, id uint) error {
	return r.db.Model(&catalogEntity.Product{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("active", false).Error
}

// CountActiveProducts counts all active rows including ingredients
// (plan quota counts both, matching the products table).
func (r *CatalogRepository) CountActiveProducts(tenantID uint) (int64, error) {
	var n int64
	err := r.db.Model(&catalogEntity.Product{}).
		Where("active = ? AND tenant_id = ?", true, tenantID).Count(&n).Error
	return n, err
}

// --- bill of materials ---

func (r *CatalogRepository) BOMLinks(tenantID, productID uint) ([]catalogEntity.ProductIngredient, error) {
	var links []catalogEntity.ProductIngredient
	err := r.db.
		Joins("JOIN products ON products.id = product_ingredients.product_id AND products.tenant_id = ?", tenantID).
		Where("product_ingredients.product_id = ?", productID).
		Find(&links).Error
	return links, err
}

// ReplaceBOM swaps the full ingredient list of a product.
func (r *CatalogRepository) ReplaceBOM(productID uint, links []catalogEntity.ProductIngredient) error {
	if err := r.db.Where("product_id = ?", productID).
		Delete(&catalogEntity.ProductIngredient{}).Error; err != nil {
		return err
	}
	for i := range links {
		links[i].ID = 0
		links[i].ProductID = productID
	}
	if len(links) == 0 {
		return nil
	}
	return r.db.Create(&links).Error
}

// ResolveCompositeCost sums ingredient cost over the BOM and divides by
// output_amount to get per-unit cost. Non-composite products return their
// own cost_price.
func (r *CatalogRepository) ResolveCompositeCost(tenantID uint, p *catalogEntity.Product) (float64, error) {
	if !p.IsComposite {
		return p.CostPrice, nil
	}
	links, err := r.BOMLinks(tenantID, p.ID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, link := range links {
		ing, err := r.ProductByID(tenantID, link.IngredientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return 0, err
		}
		total += link.Amount * ing.CostPrice
	}
	out := p.OutputAmount
	if out <= 0 {
		out = 1
	}
	return total / out, nil
}

// AvailableFromIngredients computes how many portions of a composite product
// the current ingredient stock supports: min over links of
// floor(stock * output_amount / amount). Zero when there are no usable links.
func (r *CatalogRepository) AvailableFromIngredients(tenantID uint, p *catalogEntity.Product) (int, error) {
	links, err := r.BOMLinks(tenantID, p.ID)
	if err != nil {
		return 0, err
	}
	out := p.OutputAmount
	if out <= 0 {
		out = 1
	}
	minPortions := -1
	for _, link := range links {
		if link.Amount <= 0 {
			continue
		}
		ing, err := r.ProductByID(tenantID, link.IngredientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return 0, err
		}
		portions := int(ing.Quantity * out / link.Amount)
		if minPortions < 0 || portions < minPortions {
			minPortions = portions
		}
	}
	if minPortions < 0 {
		return 0, nil
	}
	return minPortions, nil
}

// --- stock views ---

// LowStock returns tracked products at or below their minimum, scarcest
// first (quantity/min ratio ascending).
func (r *CatalogRepository) LowStock(tenantID uint) ([]catalogEntity.Product, error) {
	var products []catalogEntity.Product
	err := r.db.
		Where("active = ? AND is_ingredient = ? AND track_inventory = ? AND min_quantity > 0 AND quantity <= min_quantity AND tenant_id = ?",
			true, false, true, tenantID).
		Order("(quantity / min_quantity) ASC").
		Find(&products).Error
	return products, err
}

// TrackedProducts returns active rows with inventory tracking on, the set a
// stock-take snapshots.
func (r *CatalogRepository) TrackedProducts(tenantID uint) ([]catalogEntity.Product, error) {
	var products []catalogEntity.Product
	err := r.db.Where("active = ? AND track_inventory = ? AND tenant_id = ?", true, true, tenantID).
		Order("name").Find(&products).Error
	return products, err
}

// StockValue sums quantity*cost_price over tracked active products.
func (r *CatalogRepository) StockValue(tenantID uint) (float64, error) {
	var total float64
	err := r.db.Model(&catalogEntity.Product{}).
		Select("COALESCE(SUM(quantity * cost_price), 0)").
		Where("active = ? AND track_inventory = ? AND tenant_id = ?", true, true, tenantID).
		Scan(&total).Error
	return total, err
}
