package jobs

import (
	"log"

	catalogEntity "github.com/skandal1st/loungepos/model/entity/catalog"
)

// LowStockJob logs every tracked product at or below its minimum, grouped
// by tenant. Runs each morning so admins see shortages before opening.
func LowStockJob(args ...string) {
	db, err := openDB()
	if err != nil {
		log.Printf("lowstockjob: db: %v", err)
		return
	}

	var products []catalogEntity.Product
	err = db.Where("active = ? AND track_inventory = ? AND min_quantity > 0 AND quantity <= min_quantity", true, true).
		Order("tenant_id, quantity / min_quantity").
		Find(&products).Error
	if err != nil {
		log.Printf("lowstockjob: query: %v", err)
		return
	}
	if len(products) == 0 {
		log.Println("lowstockjob: no products below minimum")
		return
	}

	for _, p := range products {
		log.Printf("lowstockjob: tenant=%d product=%q stock=%.2f%s min=%.2f%s",
			p.TenantID, p.Name, p.Quantity, p.Unit, p.MinQuantity, p.Unit)
	}
	log.Printf("lowstockjob: %d products below minimum", len(products))
}
