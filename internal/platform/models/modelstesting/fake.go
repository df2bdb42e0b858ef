package modelstesting

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/NedasU/flyer-combiner/internal/platform/models"
	"github.com/go-faker/faker/v4"
	"github.com/samber/lo"
)

// FakeRawOffer returns models.RawOffer with fake data.
func FakeRawOffer(ops ...func(r *models.RawOffer)) models.RawOffer {
	raw := models.RawOffer{
		Shop:           faker.Word(),
		Title:          faker.Sentence(),
		Price:          fakePrice(),
		OldPrice:       fakePrice(),
		Discount:       faker.Word(),
		DateStart:      fakeDayMonth(),
		DateEnd:        fakeDayMonth(),
		AdditionalInfo: faker.Sentence(),
		Img:            faker.URL(),
	}

	for _, op := range ops {
		op(&raw)
	}

	return raw
}

// FakeOffer returns models.Offer with fake data.
func FakeOffer(ops ...func(o *models.Offer)) models.Offer {
	title := faker.Sentence()
	start := fakeDate()
	offer := models.Offer{
		Shop:            faker.Word(),
		Title:           title,
		TitleNormalized: strings.ToLower(title),
		Price:           lo.ToPtr(rand.Int31n(10000)),
		OldPrice:        lo.ToPtr(rand.Int31n(10000)),
		Discount:        faker.Word(),
		DateStart:       &start,
		DateEnd:         lo.ToPtr(start.AddDate(0, 0, 6)),
		AdditionalInfo:  faker.Sentence(),
		Img:             faker.URL(),
		ScrapedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}

	for _, op := range ops {
		op(&offer)
	}

	return offer
}

func fakePrice() string {
	return fmt.Sprintf("%d,%02d", rand.Intn(10), rand.Intn(100))
}

func fakeDayMonth() string {
	d := fakeDate()
	return d.Format("2.1")
}

func fakeDate() time.Time {
	day := rand.Intn(28) + 1
	month := time.Month(rand.Intn(12) + 1)
	return time.Date(time.Now().Year(), month, day, 0, 0, 0, 0, time.UTC)
}
