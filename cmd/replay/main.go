// Command replay drives a MatchingEngine from a flat file of orders,
// grouped into ticks by timestamp, logging the trades and book summary
// produced by each tick. It is the non-network replacement for the
// teacher's TCP server/client pair: §1 excludes network transport from
// the core, so this driver reads a static input instead of a socket.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"matchcore/internal/analytics"
	"matchcore/internal/domain"
	"matchcore/internal/engine"
	"matchcore/internal/metrics"
	"matchcore/internal/snapshot"
	"matchcore/internal/validate"
)

func main() {
	inputPath := flag.String("input", "", "Path to a replay input file (compulsory)")
	seed := flag.Int64("seed", 1, "Seed for the deterministic trade-id generator")
	tickInterval := flag.Duration("tick-interval", 0, "Pacing delay between ticks (0 = no pacing)")
	imbalanceBand := flag.Float64("imbalance-band", 0.1, "Price band L used when reporting imbalance")
	metricsNamespace := flag.String("metrics-namespace", "", "Prometheus namespace; empty disables metrics")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if *inputPath == "" {
		fmt.Println("Error: -input is compulsory.")
		flag.Usage()
		os.Exit(1)
	}

	ticks, err := loadTicks(*inputPath)
	if err != nil {
		log.Fatal().Err(err).Str("input", *inputPath).Msg("failed to load replay input")
	}

	eng := engine.New(*seed)
	eng.SetImbalanceBand(*imbalanceBand)
	if *metricsNamespace != "" {
		eng.SetMetrics(metrics.NewCollector(*metricsNamespace))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var t tomb.Tomb
	t.Go(func() error {
		return runReplay(&t, ctx, eng, ticks, *tickInterval)
	})

	<-t.Dying()
	if err := t.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("replay exited with error")
		os.Exit(1)
	}
	log.Info().Msg("replay complete")
}

// runReplay feeds ticks to the engine in order, pacing by interval
// between ticks, and stops early if ctx is cancelled.
func runReplay(t *tomb.Tomb, ctx context.Context, eng *engine.MatchingEngine, ticks []tick, interval time.Duration) error {
	for _, tk := range ticks {
		select {
		case <-t.Dying():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		admitted := make([]domain.Order, 0, len(tk.orders))
		for _, o := range tk.orders {
			if err := validate.Admission(eng.Book(), o); err != nil {
				log.Warn().Err(err).Str("order_id", o.OrderID).Msg("order rejected at admission")
				continue
			}
			admitted = append(admitted, o)
		}

		executed := eng.Match(tk.timestamp, admitted...)
		for _, row := range snapshot.ExecutedTradesLog(executed) {
			log.Info().
				Str("side", row.Side).
				Float64("price", row.Price).
				Float64("size", row.Size).
				Str("trade_id", row.TradeID).
				Msg("trade")
		}

		if trs := executed.Trades(); len(trs) > 0 {
			log.Info().
				Float64("vwap", analytics.VWAP(trs)).
				Float64("price_stddev", analytics.PriceStdDev(trs)).
				Msg("tick trade analytics")
		}

		log.Info().
			Time("tick", tk.timestamp).
			Float64("current_price", eng.Book().CurrentPrice()).
			Float64("imbalance", eng.Book().Imbalance(eng.ImbalanceBand())).
			Int("bid_depth", eng.Book().BidDepth()).
			Int("offer_depth", eng.Book().OfferDepth()).
			Msg("book summary")

		if interval > 0 {
			select {
			case <-time.After(interval):
			case <-t.Dying():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

type tick struct {
	timestamp time.Time
	orders    []domain.Order
}

// loadTicks parses a replay file into ticks grouped by the first
// column (a unix-seconds timestamp). Each non-empty, non-comment line
// is one order:
//
//	tick_unix,side,execution,price,size,order_id,trader_id,expiration_unix,status
//
// side is BUY/SELL, execution is LIMIT/MARKET, status is OPEN/CANCEL,
// expiration_unix of 0 means no expiration.
func loadTicks(path string) ([]tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	byTimestamp := make(map[int64][]domain.Order)
	var order []int64

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		o, tickUnix, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if _, seen := byTimestamp[tickUnix]; !seen {
			order = append(order, tickUnix)
		}
		byTimestamp[tickUnix] = append(byTimestamp[tickUnix], o)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	ticks := make([]tick, 0, len(order))
	for _, ts := range order {
		ticks = append(ticks, tick{timestamp: time.Unix(ts, 0), orders: byTimestamp[ts]})
	}
	return ticks, nil
}

func parseLine(line string) (domain.Order, int64, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 9 {
		return domain.Order{}, 0, fmt.Errorf("expected 9 fields, got %d", len(fields))
	}

	tickUnix, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return domain.Order{}, 0, fmt.Errorf("tick timestamp: %w", err)
	}

	side, err := parseSide(fields[1])
	if err != nil {
		return domain.Order{}, 0, err
	}
	execution, err := parseExecution(fields[2])
	if err != nil {
		return domain.Order{}, 0, err
	}
	price, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return domain.Order{}, 0, fmt.Errorf("price: %w", err)
	}
	size, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return domain.Order{}, 0, fmt.Errorf("size: %w", err)
	}
	orderID := fields[5]
	traderID := fields[6]
	expirationUnix, err := strconv.ParseInt(fields[7], 10, 64)
	if err != nil {
		return domain.Order{}, 0, fmt.Errorf("expiration: %w", err)
	}
	status, err := parseStatus(fields[8])
	if err != nil {
		return domain.Order{}, 0, err
	}

	var expiration time.Time
	if expirationUnix > 0 {
		expiration = time.Unix(expirationUnix, 0)
	}
	timestamp := time.Unix(tickUnix, 0)

	if status == domain.Cancel {
		return domain.NewCancel(orderID, timestamp), tickUnix, nil
	}
	if execution == domain.Market {
		return domain.NewMarketOrder(side, size, timestamp, orderID, traderID, expiration), tickUnix, nil
	}
	return domain.NewLimitOrder(side, price, size, timestamp, orderID, traderID, expiration, domain.DefaultPriceDigits), tickUnix, nil
}

func parseSide(s string) (domain.Side, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return domain.Buy, nil
	case "SELL":
		return domain.Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

func parseExecution(s string) (domain.Execution, error) {
	switch strings.ToUpper(s) {
	case "LIMIT":
		return domain.Limit, nil
	case "MARKET":
		return domain.Market, nil
	default:
		return 0, fmt.Errorf("unknown execution %q", s)
	}
}

func parseStatus(s string) (domain.Status, error) {
	switch strings.ToUpper(s) {
	case "OPEN":
		return domain.Open, nil
	case "CANCEL":
		return domain.Cancel, nil
	default:
		return 0, fmt.Errorf("unknown status %q", s)
	}
}
