package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/adapters/ocr"
	"github.com/arkhealth/referral-intake/backend/internal/adapters/queue"
	"github.com/arkhealth/referral-intake/backend/internal/adapters/status"
	"github.com/arkhealth/referral-intake/backend/internal/application/services"
	"github.com/arkhealth/referral-intake/backend/internal/infrastructure/clients/redis"
	"github.com/arkhealth/referral-intake/backend/pkg/config"
)

// Seeds the queue with sample referral documents through the real intake
// path. One document is complete, one is missing a required field, and one
// is not a referral at all, so a running agent pool exercises every branch
// of the pipeline.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	ctx := context.Background()

	if os.Getenv("SEED_RESET") == "true" {
		log.Info().Msg("SEED_RESET=true detected, clearing queue and status keys before seeding")
		if err := redisClient.Client().Del(ctx, cfg.Queue.Key).Err(); err != nil {
			log.Fatal().Err(err).Msg("Failed to clear queue")
		}
		iter := redisClient.Client().Scan(ctx, 0, "document:*", 100).Iterator()
		for iter.Next(ctx) {
			if err := redisClient.Client().Del(ctx, iter.Val()).Err(); err != nil {
				log.Warn().Err(err).Str("key", iter.Val()).Msg("Failed to delete status key")
			}
		}
		if err := iter.Err(); err != nil {
			log.Fatal().Err(err).Msg("Failed to scan status keys")
		}
	}

	jobQueue := queue.NewRedisJobQueue(redisClient, cfg.Queue.Key, cfg.Queue.PopTimeoutSeconds)
	statusStore := status.NewRedisStatusStore(redisClient, cfg.Status.TTLSeconds)
	intakeService := services.NewIntakeService(ocr.NewMockRecognizer(), jobQueue, statusStore)

	samples := []struct {
		filename string
		text     string
	}{
		{
			filename: "referral-complete.png",
			text: `REFERRAL LETTER

From: Dr. Amina Yusuf
Lakeside Family Practice, 12 Marina Road, Lagos
Phone: +234-801-555-0143
Email: a.yusuf@lakesidefp.example.com

To: Dr. Tunde Okafor
Cardiology Department, St. Mary's Specialist Hospital
Phone: +234-802-555-0199

Patient: Chidi Eze
Date of Birth: 1985-03-14
Insurance: HealthGuard HMO, Member ID HG-448812

Reason for Referral: Recurrent chest pain on exertion over the past six
weeks, not relieved by rest. Resting ECG unremarkable.

Requested Action: Cardiology consultation and exercise stress test.
Urgency: Urgent

Signed: Dr. Amina Yusuf, 2026-08-02`,
		},
		{
			filename: "referral-missing-dob.jpg",
			text: `REFERRAL LETTER

From: Dr. Amina Yusuf
Lakeside Family Practice, 12 Marina Road, Lagos
Email: a.yusuf@lakesidefp.example.com

To: Dr. Ngozi Balogun
Dermatology Clinic, Crestview Medical Centre

Patient: Funke Adeyemi

Reason for Referral: Persistent eczematous rash on both forearms,
unresponsive to topical steroids.

Requested Action: Dermatology assessment and patch testing.

Signed: Dr. Amina Yusuf, 2026-08-05`,
		},
		{
			filename: "not-a-referral.png",
			text: `STAFF CANTEEN MENU - WEEK 34

Monday: Jollof rice with grilled chicken
Tuesday: Egusi soup with pounded yam
Wednesday: Fried plantain and beans
Thursday: Okra soup with eba
Friday: Suya wraps`,
		},
	}

	for _, sample := range samples {
		job, err := intakeService.ProcessUpload(ctx, sample.filename, []byte(sample.text))
		if err != nil {
			log.Error().Err(err).Str("filename", sample.filename).Msg("Failed to seed document")
			continue
		}
		log.Info().
			Str("filename", sample.filename).
			Str("document_id", job.DocumentID).
			Msg("Seeded document")
	}

	length, err := jobQueue.Length(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read queue length")
	}
	log.Info().Int64("queue_length", length).Msg("Seeding complete")
}
