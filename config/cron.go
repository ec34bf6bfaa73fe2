package config

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

// CronJobs holds statically configured jobs. The built-in jobs (reindex,
// summary warmup) register themselves through cron.Register in cron/jobs.
var CronJobs = map[string]CronJob{
	// Add more jobs here
}
