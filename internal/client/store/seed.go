package store

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mhst/internal/client/models"
	"github.com/dmitrijs2005/mhst/internal/dbx"
	"github.com/dmitrijs2005/mhst/internal/livequery"
)

// SeedTherapists returns the sample therapist directory.
func SeedTherapists() []models.Therapist {
	return []models.Therapist{
		{
			Name:           "Dr. Sarah Johnson",
			Specialization: "Clinical Psychology, Anxiety & Depression",
			Phone:          "+254 712 345 678",
			Email:          "sarah.johnson@mhst.co.ke",
			Location:       "Nairobi, Westlands",
			Availability:   "Mon-Fri: 9AM-5PM",
		},
		{
			Name:           "Dr. Michael Omondi",
			Specialization: "Family Therapy & Relationship Counseling",
			Phone:          "+254 723 456 789",
			Email:          "michael.omondi@mhst.co.ke",
			Location:       "Nairobi, Kilimani",
			Availability:   "Tue-Sat: 10AM-6PM",
		},
		{
			Name:           "Dr. Amina Hassan",
			Specialization: "Trauma & PTSD Specialist",
			Phone:          "+254 734 567 890",
			Email:          "amina.hassan@mhst.co.ke",
			Location:       "Mombasa, Nyali",
			Availability:   "Mon-Thu: 8AM-4PM",
		},
		{
			Name:           "Dr. James Kimani",
			Specialization: "Youth Mental Health & Addiction",
			Phone:          "+254 745 678 901",
			Email:          "james.kimani@mhst.co.ke",
			Location:       "Nairobi, Karen",
			Availability:   "Wed-Sun: 11AM-7PM",
		},
	}
}

// SeedArticles returns the sample articles.
func SeedArticles() []models.Article {
	return []models.Article{
		{
			Title:       "Anxiety is Anxieting",
			Description: "Understanding anxiety and its manifestations",
			Category:    "Anxiety",
			Content:     "Anxiety is more than just feeling stressed or worried...",
		},
		{
			Title:       "BPD: The Other Side Of You",
			Description: "Exploring Borderline Personality Disorder",
			Category:    "BPD",
			Content:     "Borderline Personality Disorder affects how you think about yourself...",
		},
		{
			Title:       "Depression: Mbona unakaa sura ya kiatu?",
			Description: "Understanding depression beyond sadness",
			Category:    "Depression",
			Content:     "Depression is a serious mental health condition...",
		},
		{
			Title:       "Schizophrenia: Bestie is that you?",
			Description: "Demystifying schizophrenia",
			Category:    "Schizophrenia",
			Content:     "Schizophrenia is often misunderstood...",
		},
		{
			Title:       "OCD: No you don't want this",
			Description: "Understanding Obsessive-Compulsive Disorder",
			Category:    "OCD",
			Content:     "OCD involves persistent, unwanted thoughts and repetitive behaviors...",
		},
		{
			Title:       "ADHD: You remember that thing, the ummm yk",
			Description: "Living with Attention Deficit Hyperactivity Disorder",
			Category:    "ADHD",
			Content:     "ADHD affects focus, impulse control, and activity levels...",
		},
	}
}

func (s *Store) seed(ctx context.Context) {
	defer close(s.seeded)

	start := time.Now()
	batch := livequery.NewBatch(s.hub)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.therapists.InTx(tx, batch).InsertAll(ctx, SeedTherapists()); err != nil {
			return err
		}
		return s.articles.InTx(tx, batch).InsertAll(ctx, SeedArticles())
	})
	if err != nil {
		batch.Discard()
		s.seedErr = err
		s.log.Error(ctx, "seeding failed", "error", err)
		return
	}
	batch.Flush()
	s.log.Info(ctx, "database seeded", "took", time.Since(start))
}
