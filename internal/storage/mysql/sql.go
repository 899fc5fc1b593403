package mysql

const insertBusinessSQL = `
INSERT INTO businesses
  (name, slug, category, description, website, phone, deal_text, address, hero_image, logo_image, place_id)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateBusinessSQL = `
UPDATE businesses SET
  name        = ?,
  slug        = ?,
  category    = ?,
  description = ?,
  website     = ?,
  phone       = ?,
  deal_text   = ?,
  address     = ?,
  hero_image  = ?,
  logo_image  = ?,
  place_id    = ?,
  updated_at  = CURRENT_TIMESTAMP
WHERE id = ?
`

// Reviews go with the business via the FK's ON DELETE CASCADE.
const deleteBusinessSQL = `DELETE FROM businesses WHERE id = ?`

const businessColumns = `
  b.id, b.name, b.slug, b.category, b.description, b.website, b.phone,
  b.deal_text, b.address, b.hero_image, b.logo_image, b.place_id,
  b.created_at, b.updated_at
`

const getBusinessBySlugSQL = `
SELECT ` + businessColumns + `
FROM businesses b
WHERE b.slug = ?
`

// Listing rows carry the local aggregate computed in one pass. Only
// approved reviews count toward the average.
const listBusinessesSQL = `
SELECT ` + businessColumns + `,
  COALESCE(AVG(r.rating), 0) AS avg_rating,
  COUNT(r.id)                AS review_count
FROM businesses b
LEFT JOIN reviews r ON r.business_id = b.id AND r.approved = 1
GROUP BY b.id
`

const orderTop = ` ORDER BY avg_rating DESC, review_count DESC, b.name ASC`
const orderAZ = ` ORDER BY b.name ASC`

const insertReviewSQL = `
INSERT INTO reviews (business_id, rating, name, email, comment, approved)
VALUES (?, ?, ?, ?, ?, ?)
`

const listReviewsSQL = `
SELECT id, business_id, rating, name, email, comment, approved, created_at
FROM reviews
WHERE business_id = ? AND approved = 1
ORDER BY created_at DESC, id DESC
LIMIT ?
`

const reviewSummarySQL = `
SELECT COALESCE(AVG(rating), 0), COUNT(*)
FROM reviews
WHERE business_id = ? AND approved = 1
`
