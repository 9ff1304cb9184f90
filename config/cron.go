package config

import (
	"github.com/skandal1st/loungepos/cron/jobs"
)

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

var CronJobs = map[string]CronJob{
	"lowstockjob":     {Schedule: "0 9 * * *", Job: jobs.LowStockJob},
	"subscriptionjob": {Schedule: "@hourly", Job: jobs.SubscriptionSweepJob},
	// Add more jobs here
}
