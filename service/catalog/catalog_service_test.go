package catalog

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/skandal1st/loungepos/core/apperr"
	catalogEntity "github.com/skandal1st/loungepos/model/entity/catalog"
)

func testDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&catalogEntity.Category{},
		&catalogEntity.Product{},
		&catalogEntity.ProductIngredient{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

const testTenant = uint(1)

func seedCategory(t *testing.T, db *gorm.DB) *catalogEntity.Category {
	cat := &catalogEntity.Category{TenantID: testTenant, Name: "Hookahs", Active: true}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return cat
}

func strptr(s string) *string   { return &s }
func f64ptr(f float64) *float64 { return &f }

func TestCreateProductDefaults(t *testing.T) {
	db := testDB(t)
	cat := seedCategory(t, db)
	svc := NewCatalogService(db)

	p, err := svc.CreateProduct(testTenant, ProductInput{
		CategoryID: &cat.ID,
		Name:       strptr("Cola"),
		Price:      f64ptr(150),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.Unit != "pcs" || !p.TrackInventory || p.OutputAmount != 1 || !p.Active {
		t.Errorf("defaults not applied: %+v", p)
	}

	if _, err := svc.CreateProduct(testTenant, ProductInput{Name: strptr("no category")}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("missing category: got %v, want validation error", err)
	}
	missing := uint(999)
	if _, err := svc.CreateProduct(testTenant, ProductInput{CategoryID: &missing, Name: strptr("x")}); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("unknown category: got %v, want not found", err)
	}
}

func TestCreateIngredientPinsPriceToZero(t *testing.T) {
	db := testDB(t)
	cat := seedCategory(t, db)
	svc := NewCatalogService(db)

	ing, err := svc.CreateIngredient(testTenant, ProductInput{
		CategoryID: &cat.ID,
		Name:       strptr("Tobacco"),
		Price:      f64ptr(99), // must be ignored
		CostPrice:  f64ptr(2),
	})
	if err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}
	if ing.Price != 0 || !ing.IsIngredient || ing.Unit != "g" {
		t.Errorf("ingredient row wrong: %+v", ing)
	}

	// ingredients are invisible through the product lookup
	if _, err := svc.Product(testTenant, ing.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Product on ingredient: got %v, want not found", err)
	}
	if got, err := svc.Ingredient(testTenant, ing.ID); err != nil || got.ID != ing.ID {
		t.Errorf("Ingredient = %+v (%v)", got, err)
	}
}

func TestSetRecipeComputesCostAndAvailability(t *testing.T) {
	db := testDB(t)
	cat := seedCategory(t, db)
	svc := NewCatalogService(db)

	tobacco, _ := svc.CreateIngredient(testTenant, ProductInput{
		CategoryID: &cat.ID, Name: strptr("Tobacco"), CostPrice: f64ptr(2), Quantity: f64ptr(100),
	})
	coal, _ := svc.CreateIngredient(testTenant, ProductInput{
		CategoryID: &cat.ID, Name: strptr("Coal"), CostPrice: f64ptr(0.5), Quantity: f64ptr(30),
	})
	hookah, err := svc.CreateProduct(testTenant, ProductInput{
		CategoryID: &cat.ID, Name: strptr("Hookah"), Price: f64ptr(500), TrackInventory: boolptr(false),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	// 20g tobacco + 3 coal per 2 servings: cost = (20*2 + 3*0.5)/2 = 20.75
	updated, err := svc.SetRecipe(testTenant, hookah.ID, []RecipeLinkInput{
		{IngredientID: tobacco.ID, Amount: 20},
		{IngredientID: coal.ID, Amount: 3},
	}, f64ptr(2), strptr("classic bowl"))
	if err != nil {
		t.Fatalf("SetRecipe: %v", err)
	}
	if !updated.IsComposite {
		t.Error("product should be composite after recipe set")
	}
	if updated.CostPrice != 20.75 {
		t.Errorf("cost = %.4f, want 20.75", updated.CostPrice)
	}
	if updated.RecipeDescription != "classic bowl" {
		t.Errorf("recipe description = %q", updated.RecipeDescription)
	}

	// availability = min(floor(stock*output/amount)) over links:
	// tobacco 100*2/20 = 10, coal 30*2/3 = 20 -> 10
	view, err := svc.Product(testTenant, hookah.ID)
	if err != nil {
		t.Fatalf("Product: %v", err)
	}
	if len(view.Ingredients) != 2 {
		t.Fatalf("ingredients = %d, want 2", len(view.Ingredients))
	}
	if view.AvailableFromIngredients == nil || *view.AvailableFromIngredients != 10 {
		t.Errorf("available = %v, want 10", view.AvailableFromIngredients)
	}

	// clearing the recipe flips composite off
	cleared, err := svc.SetRecipe(testTenant, hookah.ID, nil, nil, nil)
	if err != nil {
		t.Fatalf("SetRecipe clear: %v", err)
	}
	if cleared.IsComposite {
		t.Error("product should not stay composite with no links")
	}
}

func TestSetRecipeRejectsCycles(t *testing.T) {
	db := testDB(t)
	cat := seedCategory(t, db)
	svc := NewCatalogService(db)

	a, _ := svc.CreateProduct(testTenant, ProductInput{CategoryID: &cat.ID, Name: strptr("A")})
	b, _ := svc.CreateProduct(testTenant, ProductInput{CategoryID: &cat.ID, Name: strptr("B")})
	c, _ := svc.CreateProduct(testTenant, ProductInput{CategoryID: &cat.ID, Name: strptr("C")})

	// self reference
	_, err := svc.SetRecipe(testTenant, a.ID, []RecipeLinkInput{{IngredientID: a.ID, Amount: 1}}, nil, nil)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("self reference: got %v, want validation error", err)
	}

	// A -> B -> C is fine, then C -> A must close the loop and be rejected
	if _, err := svc.SetRecipe(testTenant, a.ID, []RecipeLinkInput{{IngredientID: b.ID, Amount: 1}}, nil, nil); err != nil {
		t.Fatalf("A->B: %v", err)
	}
	if _, err := svc.SetRecipe(testTenant, b.ID, []RecipeLinkInput{{IngredientID: c.ID, Amount: 1}}, nil, nil); err != nil {
		t.Fatalf("B->C: %v", err)
	}
	_, err = svc.SetRecipe(testTenant, c.ID, []RecipeLinkInput{{IngredientID: a.ID, Amount: 1}}, nil, nil)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("C->A: got %v, want validation error", err)
	}

	// the rejected edit must not leave any links behind
	var count int64
	db.Model(&catalogEntity.ProductIngredient{}).Where("product_id = ?", c.ID).Count(&count)
	if count != 0 {
		t.Errorf("links for C = %d, want 0", count)
	}
}

func TestSetRecipeValidation(t *testing.T) {
	db := testDB(t)
	cat := seedCategory(t, db)
	svc := NewCatalogService(db)

	p, _ := svc.CreateProduct(testTenant, ProductInput{CategoryID: &cat.ID, Name: strptr("P")})

	_, err := svc.SetRecipe(testTenant, p.ID, []RecipeLinkInput{{IngredientID: 999, Amount: 1}}, nil, nil)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("unknown ingredient: got %v, want not found", err)
	}
	_, err = svc.SetRecipe(testTenant, p.ID, []RecipeLinkInput{{IngredientID: p.ID + 1, Amount: 0}}, nil, nil)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("zero amount: got %v, want validation error", err)
	}
}

func TestUpdateProductPatchSemantics(t *testing.T) {
	db := testDB(t)
	cat := seedCategory(t, db)
	svc := NewCatalogService(db)

	p, _ := svc.CreateProduct(testTenant, ProductInput{
		CategoryID: &cat.ID, Name: strptr("Tea"), Price: f64ptr(100), MinQuantity: f64ptr(5),
	})

	updated, err := svc.UpdateProduct(testTenant, p.ID, ProductInput{Price: f64ptr(120)})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.Price != 120 {
		t.Errorf("price = %.2f, want 120", updated.Price)
	}
	if updated.Name != "Tea" || updated.MinQuantity != 5 {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func boolptr(b bool) *bool { return &b }
