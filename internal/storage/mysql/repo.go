package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cavanpasek/ouray-info/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) CreateBusiness(ctx context.Context, b *domain.Business) error {
	if b.Slug == "" {
		b.Slug = domain.Slugify(b.Name)
	}
	res, err := r.db.ExecContext(ctx, insertBusinessSQL,
		b.Name, b.Slug, b.Category, b.Description, b.Website, b.Phone,
		b.DealText, b.Address, b.HeroImage, b.LogoImage, b.PlaceID,
	)
	if err != nil {
		return err
	}
	b.ID, err = res.LastInsertId()
	return err
}

func (r *Repo) UpdateBusiness(ctx context.Context, b *domain.Business) error {
	if b.Slug == "" {
		b.Slug = domain.Slugify(b.Name)
	}
	_, err := r.db.ExecContext(ctx, updateBusinessSQL,
		b.Name, b.Slug, b.Category, b.Description, b.Website, b.Phone,
		b.DealText, b.Address, b.HeroImage, b.LogoImage, b.PlaceID,
		b.ID,
	)
	return err
}

func (r *Repo) DeleteBusiness(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, deleteBusinessSQL, id)
	return err
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (domain.Business, error) {
	row := r.db.QueryRowContext(ctx, getBusinessBySlugSQL, slug)
	var b domain.Business
	if err := scanBusiness(row.Scan, &b); err != nil {
		if err == sql.ErrNoRows {
			return domain.Business{}, domain.ErrNotFound
		}
		return domain.Business{}, err
	}
	return b, nil
}

// ListBusinesses returns listing cards ordered per the sort mode. The
// google mode needs external data the database does not have, so it
// shares the az base order and the app layer re-sorts.
func (r *Repo) ListBusinesses(ctx context.Context, sort domain.SortMode) ([]domain.BusinessCard, error) {
	q := listBusinessesSQL
	if sort == domain.SortTop {
		q += orderTop
	} else {
		q += orderAZ
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCards(rows)
}

func (r *Repo) ListByIDs(ctx context.Context, ids []int64) ([]domain.BusinessCard, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = "?"
		args[i] = id
	}
	q := listBusinessesSQL
	// splice the IN filter in front of the base query's GROUP BY
	q = strings.Replace(q, "GROUP BY b.id", "WHERE b.id IN ("+strings.Join(ph, ",")+")\nGROUP BY b.id", 1)
	q += orderTop

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCards(rows)
}

func (r *Repo) ListReviews(ctx context.Context, businessID int64, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.BusinessID, &rv.Rating, &rv.Name, &rv.Email,
			&rv.Comment, &rv.Approved, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) CreateReview(ctx context.Context, rv *domain.Review) error {
	res, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.BusinessID, rv.Rating, rv.Name, rv.Email, rv.Comment, rv.Approved,
	)
	if err != nil {
		return err
	}
	rv.ID, err = res.LastInsertId()
	return err
}

func (r *Repo) ReviewSummary(ctx context.Context, businessID int64) (domain.RatingSummary, error) {
	var s domain.RatingSummary
	err := r.db.QueryRowContext(ctx, reviewSummarySQL, businessID).Scan(&s.Average, &s.Count)
	return s, err
}

func scanBusiness(scan func(dest ...any) error, b *domain.Business) error {
	return scan(
		&b.ID, &b.Name, &b.Slug, &b.Category, &b.Description, &b.Website,
		&b.Phone, &b.DealText, &b.Address, &b.HeroImage, &b.LogoImage,
		&b.PlaceID, &b.CreatedAt, &b.UpdatedAt,
	)
}

func scanCards(rows *sql.Rows) ([]domain.BusinessCard, error) {
	var out []domain.BusinessCard
	for rows.Next() {
		var c domain.BusinessCard
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Category, &c.Description, &c.Website,
			&c.Phone, &c.DealText, &c.Address, &c.HeroImage, &c.LogoImage,
			&c.PlaceID, &c.CreatedAt, &c.UpdatedAt,
			&c.Rating.Average, &c.Rating.Count,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
