package jobs

import (
	"context"
	"log"

	"protrack.GO/config"
	"protrack.GO/cron"
	repo "protrack.GO/model/repository/procurement"
	reportService "protrack.GO/service/report"
	searchService "protrack.GO/service/search"
)

func init() {
	cron.Register("reindexjob", "0 * * * *", ReindexJob)
	cron.Register("summaryjob", "*/15 * * * *", SummaryJob)
}

// ReindexJob pushes every PO line item into the search index. No-op when
// Elasticsearch is not configured.
func ReindexJob(args ...string) {
	es := searchService.GetService()
	if !es.Available() {
		log.Println("reindexjob: elasticsearch not configured, skipping")
		return
	}

	db, err := config.NewDB()
	if err != nil {
		log.Printf("reindexjob: db: %v", err)
		return
	}
	poRepo, err := repo.NewPORepository(db)
	if err != nil {
		log.Printf("reindexjob: %v", err)
		return
	}
	items, err := poRepo.ListAll()
	if err != nil {
		log.Printf("reindexjob: list: %v", err)
		return
	}
	if err := es.IndexLineItems(context.Background(), items); err != nil {
		log.Printf("reindexjob: index: %v", err)
		return
	}
	log.Printf("reindexjob: indexed %d line items", len(items))
}

// SummaryJob rebuilds the cached per-PO status rollup so dashboard reads
// stay warm between uploads.
func SummaryJob(args ...string) {
	db, err := config.NewDB()
	if err != nil {
		log.Printf("summaryjob: db: %v", err)
		return
	}
	svc, err := reportService.NewService(db)
	if err != nil {
		log.Printf("summaryjob: %v", err)
		return
	}
	if err := svc.WarmSummary(); err != nil {
		log.Printf("summaryjob: %v", err)
		return
	}
	log.Println("summaryjob: summary cache refreshed")
}
