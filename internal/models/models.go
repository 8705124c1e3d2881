package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book represents a catalog entry. The catalog is read-only from the
// order workflow's perspective; writes are owned by catalog management.
type Book struct {
	ID                   int64               `db:"id" json:"id"`
	Title                string              `db:"title" json:"title"`
	ISBN                 string              `db:"isbn" json:"isbn"`
	Description          string              `db:"description" json:"description"`
	Author               string              `db:"author" json:"author"`
	Genre                string              `db:"genre" json:"genre"`
	Language             string              `db:"language" json:"language"`
	Format               string              `db:"format" json:"format"`
	Publisher            string              `db:"publisher" json:"publisher"`
	PublicationDate      time.Time           `db:"publication_date" json:"publicationDate"`
	Price                decimal.Decimal     `db:"price" json:"price"`
	Stock                int                 `db:"stock" json:"stock"`
	IsAvailableInLibrary bool                `db:"is_available_in_library" json:"isAvailableInLibrary"`
	OnSale               bool                `db:"on_sale" json:"onSale"`
	DiscountPercentage   decimal.NullDecimal `db:"discount_percentage" json:"discountPercentage"`
	DiscountStartDate    *time.Time          `db:"discount_start_date" json:"discountStartDate,omitempty"`
	DiscountEndDate      *time.Time          `db:"discount_end_date" json:"discountEndDate,omitempty"`
	ExclusiveEdition     bool                `db:"exclusive_edition" json:"exclusiveEdition"`
	BookPhoto            string              `db:"book_photo" json:"bookPhoto"`
	AddedDate            time.Time           `db:"added_date" json:"addedDate"`
}

// Order represents a customer order and its line items.
type Order struct {
	ID              int64           `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"userId"`
	OrderDate       time.Time       `db:"order_date" json:"orderDate"`
	Status          string          `db:"status" json:"status"`
	ClaimCode       string          `db:"claim_code" json:"claimCode"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"totalAmount"`
	DiscountApplied decimal.Decimal `db:"discount_applied" json:"discountApplied"`
	CompletedAt     *time.Time      `db:"completed_at" json:"completedAt,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
	Items           []OrderItem     `db:"-" json:"items"`
}

// OrderItem is a line item. Unit price is a snapshot taken at order time.
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"orderId"`
	BookID    int64           `db:"book_id" json:"bookId"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unitPrice"`
}

// CartItem is a pending cart entry for a user.
type CartItem struct {
	ID       int64  `db:"id" json:"id"`
	UserID   string `db:"user_id" json:"userId"`
	BookID   int64  `db:"book_id" json:"bookId"`
	Quantity int    `db:"quantity" json:"quantity"`
}

// User is the slice of the identity record the workflow needs: where to
// send mail and when the account was created (feed watermark).
type User struct {
	ID        string     `db:"id" json:"id"`
	Email     string     `db:"email" json:"email"`
	FullName  string     `db:"full_name" json:"fullName"`
	CreatedAt *time.Time `db:"created_at" json:"createdAt,omitempty"`
}

// Order statuses. Legal transitions are Pending -> Completed and
// Pending -> Cancelled; terminal states never transition again.
const (
	OrderStatusPending   = "Pending"
	OrderStatusCompleted = "Completed"
	OrderStatusCancelled = "Cancelled"
)

// Notification is the event shape pushed to connected clients and
// returned by the pull feed.
type Notification struct {
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}
