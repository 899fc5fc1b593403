package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/cavanpasek/ouray-info/internal/adapters/observability"
	"github.com/cavanpasek/ouray-info/internal/domain"
	"github.com/cavanpasek/ouray-info/internal/shared"
	mysqlrepo "github.com/cavanpasek/ouray-info/internal/storage/mysql"
)

// Seeds the directory with a handful of Ouray businesses and sample
// reviews. Intended for local development; wipes existing rows first.
func main() {
	_ = godotenv.Load()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	ctx := context.Background()
	repo := mysqlrepo.New(db)

	log.Info().Msg("cleaning old data")
	if _, err := db.ExecContext(ctx, "DELETE FROM reviews"); err != nil {
		log.Fatal().Err(err).Msg("cleanup failed")
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM businesses"); err != nil {
		log.Fatal().Err(err).Msg("cleanup failed")
	}

	businesses := []domain.Business{
		{
			Name:        "Ouray Brewery",
			Category:    "Restaurants & Bars",
			Description: "Rooftop brewery on Main Street with house beers and burgers.",
			Website:     "https://ouraybrewery.example.com",
			Phone:       "(970) 325-7388",
			DealText:    "Happy hour 3-5pm weekdays",
			Address:     "607 Main St, Ouray, CO 81427",
		},
		{
			Name:        "Box Canyon Lodge & Hot Springs",
			Category:    "Lodging",
			Description: "Family lodge with terraced hot spring tubs above the Uncompahgre River.",
			Website:     "https://boxcanyonouray.example.com",
			Phone:       "(970) 325-4981",
			Address:     "45 Third Ave, Ouray, CO 81427",
		},
		{
			Name:        "San Juan Mountain Guides",
			Category:    "Activities & Tours",
			Description: "Climbing, ice climbing, and backcountry ski guiding in the San Juans.",
			Website:     "https://mtnguide.example.com",
			Phone:       "(970) 325-4925",
			DealText:    "10% off ice park intro courses",
			Address:     "725 Main St, Ouray, CO 81427",
		},
		{
			Name:        "Mouse's Chocolates & Coffee",
			Category:    "Food & Sweets",
			Description: "Small-batch truffles, scrap cookies, and espresso.",
			Phone:       "(970) 325-4408",
			Address:     "520 Main St, Ouray, CO 81427",
		},
		{
			Name:        "Ouray Bookshop",
			Category:    "Shopping",
			Description: "Independent bookshop with regional history and trail guides.",
			Address:     "335 Sixth Ave, Ouray, CO 81427",
		},
	}

	for i := range businesses {
		if err := repo.CreateBusiness(ctx, &businesses[i]); err != nil {
			log.Fatal().Err(err).Str("name", businesses[i].Name).Msg("seed business failed")
		}
		log.Info().Str("slug", businesses[i].Slug).Msg("created business")
	}

	reviews := []struct {
		biz     int
		rating  int
		name    string
		comment string
		daysAgo int
	}{
		{0, 5, "Hannah", "Great beer and the rooftop view of the amphitheater is unbeatable.", 3},
		{0, 4, "Marcus", "Solid burgers, can get busy on summer weekends.", 12},
		{1, 5, "", "Soaking in the hot springs after a day of hiking was perfect.", 7},
		{2, 5, "Priya", "Our guide was patient and the ice park intro was a blast.", 21},
		{3, 4, "Joel", "The scrap cookies live up to the hype.", 1},
	}
	now := time.Now().UTC()
	for _, rv := range reviews {
		r := domain.Review{
			BusinessID: businesses[rv.biz].ID,
			Rating:     rv.rating,
			Name:       rv.name,
			Comment:    rv.comment,
			Approved:   true,
		}
		if err := repo.CreateReview(ctx, &r); err != nil {
			log.Fatal().Err(err).Msg("seed review failed")
		}
		// backdate so the listing shows a spread of dates
		when := now.AddDate(0, 0, -rv.daysAgo)
		if _, err := db.ExecContext(ctx, "UPDATE reviews SET created_at = ? WHERE id = ?", when, r.ID); err != nil {
			log.Fatal().Err(err).Msg("backdate review failed")
		}
	}

	log.Info().Int("businesses", len(businesses)).Int("reviews", len(reviews)).Msg("seed completed")
}
