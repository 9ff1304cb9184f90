package jobs

import (
	"log"

	tenantRepo "github.com/skandal1st/loungepos/model/repository/tenant"
)

// SubscriptionSweepJob flips lapsed subscriptions to past_due. Until an
// operator renews them the quota middleware rejects those tenants' requests.
func SubscriptionSweepJob(args ...string) {
	db, err := openDB()
	if err != nil {
		log.Printf("subscriptionjob: db: %v", err)
		return
	}

	n, err := tenantRepo.GetTenantRepository(db).MarkPastDue()
	if err != nil {
		log.Printf("subscriptionjob: sweep: %v", err)
		return
	}
	if n > 0 {
		log.Printf("subscriptionjob: marked %d subscriptions past_due", n)
	}
}
