package helpers

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	pgmodels "github.com/NedasU/flyer-combiner/internal/platform/storage/gen/postgres/public/model"
	"github.com/NedasU/flyer-combiner/internal/platform/storage/storagetesting"
	"github.com/go-jet/jet/v2/qrm"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

// offersFileColumns is the header of flyer offers files.
var offersFileColumns = []string{
	"shop",
	"title",
	"price",
	"old_price",
	"discount",
	"date_start",
	"date_end",
	"additional_info",
	"img",
}

// rimiPageHTML is a trimmed down rimi.lt promotions page with two offers,
// one per price markup variant.
const rimiPageHTML = `<!DOCTYPE html>
<html lang="lt">
<body>
<main>
  <ul class="product-grid">
    <li class="product-grid__item">
      <div class="card__image-wrapper">
        <img data-src="https://rimi.lt/images/bananai.png" alt="Bananai">
        <div class="price-label">
          <div class="price-label__header -red">-30%</div>
          <div class="price-label__body">
            <div class="price-label__price">2,49€</div>
          </div>
        </div>
      </div>
      <div class="card__details">
        <p class="card__name">Bananai</p>
        <div class="card__details-inner">
          <div class="card__price-wrapper">
            <div class="price-tag card__price"><span>3</span><sup>49</sup><span>€/vnt.</span></div>
          </div>
        </div>
      </div>
    </li>
    <li class="product-grid__item">
      <div class="card__image-wrapper">
        <img data-src="https://rimi.lt/images/pienas.png" alt="Pienas">
      </div>
      <div class="card__details">
        <p class="card__name">Pienas</p>
        <div class="card__details-inner">
          <div class="card__price-wrapper">
            <div class="price-tag card__price"><span>1</span><sup>99</sup><span>€</span></div>
            <div class="old-price-tag"><span>249€/kg</span></div>
          </div>
        </div>
      </div>
    </li>
  </ul>
</main>
</body>
</html>`

// WaitForRunToBeFinished is blocking helper function,
// returns latest finished run with ID greater than afterID.
func WaitForRunToBeFinished(t *testing.T, queryable qrm.Queryable, afterID int32) *pgmodels.Run {
	t.Helper()

	for {
		<-time.After(time.Millisecond * 250)
		latestRun := storagetesting.GetLatestRun(t, queryable)
		if latestRun != nil && latestRun.ID > afterID && latestRun.FinishedAt != nil {
			return latestRun
		}
	}
}

// WriteOffersCSV is helper function which writes an offers file with the standard header.
func WriteOffersCSV(t *testing.T, path string, records [][]string) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		require.FailNow(t, "can't create offers file", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			require.FailNow(t, "can't close offers file", err)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(offersFileColumns); err != nil {
		require.FailNow(t, "can't write offers file header", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			require.FailNow(t, "can't write offers file record", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		require.FailNow(t, "can't flush offers file", err)
	}
}

// PrepareMockedRimiServer is helper function for mocking the rimi.lt promotions listing.
// The first page carries two offers, every following page is empty.
func PrepareMockedRimiServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("currentPage") == "1" {
			_, _ = wrt.Write([]byte(rimiPageHTML))
			return
		}
		_, _ = wrt.Write([]byte("<html><body><main></main></body></html>"))
	}))

	t.Cleanup(func() {
		srv.Close()
	})

	return srv
}

// DeclareRMQExchange is helper function for declaring RMQ exchange.
func DeclareRMQExchange(t *testing.T, ch *amqp.Channel, exchange string) {
	t.Helper()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		require.FailNow(t, "can't declare exchange", exchange, err)
	}
}

// DeclareRMQQueue is helper function for declaring RMQ queue and binding and cleaning them after test is finished.
func DeclareRMQQueue(t *testing.T, channel *amqp.Channel, queueName, exchange, routingKey string) {
	t.Helper()

	_, err := channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		require.FailNow(t, "can't declare queue", queueName, err)
	}

	err = channel.QueueBind(queueName, routingKey, exchange, false, nil)
	if err != nil {
		require.FailNow(t, "can't bind queue", queueName, routingKey, err)
	}

	t.Cleanup(func() {
		_, err := channel.QueueDelete(queueName, false, false, true)
		if err != nil {
			require.FailNow(t, "can't delete queue", queueName, err)
		}
	})
}
