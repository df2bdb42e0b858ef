package storage

import (
	"github.com/NedasU/flyer-combiner/internal/platform/models"

	pgmodels "github.com/NedasU/flyer-combiner/internal/platform/storage/gen/postgres/public/model"
)

func toDBRun(run *models.Run) *pgmodels.Run {
	return &pgmodels.Run{
		ID:             int32(run.ID),
		CreatedAt:      run.CreatedAt,
		FinishedAt:     run.FinishedAt,
		Success:        run.IsSuccess,
		StatusMessage:  run.StatusMessage,
		ScrapedSources: run.ScrapedSources,
		InsertedOffers: run.InsertedOffers,
		FailedOffers:   run.FailedOffers,
	}
}

// ToDBOffer converts models.Offer into postgres offer model.
func ToDBOffer(offer *models.Offer) *pgmodels.Offer {
	return &pgmodels.Offer{
		ID:              int32(offer.ID),
		Shop:            offer.Shop,
		Title:           offer.Title,
		TitleNormalized: offer.TitleNormalized,
		Price:           offer.Price,
		OldPrice:        offer.OldPrice,
		Discount:        offer.Discount,
		DateStart:       offer.DateStart,
		DateEnd:         offer.DateEnd,
		AdditionalInfo:  offer.AdditionalInfo,
		Img:             offer.Img,
		ScrapedAt:       offer.ScrapedAt,
	}
}

// ToAppOffer converts postgres offer model into models.Offer.
func ToAppOffer(offer *pgmodels.Offer) *models.Offer {
	return &models.Offer{
		ID:              int(offer.ID),
		Shop:            offer.Shop,
		Title:           offer.Title,
		TitleNormalized: offer.TitleNormalized,
		Price:           offer.Price,
		OldPrice:        offer.OldPrice,
		Discount:        offer.Discount,
		DateStart:       offer.DateStart,
		DateEnd:         offer.DateEnd,
		AdditionalInfo:  offer.AdditionalInfo,
		Img:             offer.Img,
		ScrapedAt:       offer.ScrapedAt,
	}
}
