package handlers

import (
	"github.com/Tkay24/commerce/internal/repos"
	"github.com/Tkay24/commerce/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ListingHandler   *ListingHandler
	BidHandler       *BidHandler
	WatchlistHandler *WatchlistHandler
	CommentHandler   *CommentHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	listingRepo := repos.NewListingRepo(db)
	bidRepo := repos.NewBidRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	commentRepo := repos.NewCommentRepo(db)
	watchRepo := repos.NewWatchlistRepo(db)
	userRepo := repos.NewUserRepo(db)

	ledger := services.NewLedgerService(listingRepo, bidRepo, catRepo, commentRepo, watchRepo, userRepo)

	return &Deps{
		ListingHandler:   &ListingHandler{Ledger: ledger},
		BidHandler:       &BidHandler{Ledger: ledger},
		WatchlistHandler: &WatchlistHandler{Ledger: ledger},
		CommentHandler:   &CommentHandler{Ledger: ledger},
	}
}
