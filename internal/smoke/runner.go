package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/aube/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// questions cycle through the chat load.
var questions = []string{ //nolint:gochecknoglobals // fixed prompt set
	"Quelles sont les sources de données ?",
	"Pourquoi le LSTM est-il plus précis ?",
	"Quels métiers sont critiques à Caen ?",
	"Comment est calculé le ratio de tension ?",
}

// Run exercises a running service end to end.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("smoke")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting aube smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("pointers", cfg.Pointers),
		logger.Int("chats", cfg.Chats),
		logger.Int("workers", cfg.Workers))

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}
	if err := checkDashboard(ctx, client, stats); err != nil {
		return stats, fmt.Errorf("dashboard check failed: %w", err)
	}
	scenes, err := listScenes(ctx, client)
	if err != nil {
		return stats, fmt.Errorf("scene listing failed: %w", err)
	}
	if err := sendPointers(ctx, cfg, client, scenes, stats); err != nil {
		return stats, fmt.Errorf("pointer load failed: %w", err)
	}
	if err := pullFrames(ctx, cfg, client, scenes, stats); err != nil {
		return stats, fmt.Errorf("frame check failed: %w", err)
	}
	if err := sendChats(ctx, cfg, client, stats); err != nil {
		return stats, fmt.Errorf("chat load failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	status, _, err := client.Get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("status %d", status)
	}
	return nil
}

func checkDashboard(ctx context.Context, client *HTTPClient, stats *Stats) error {
	var d Dashboard
	if err := client.GetJSON(ctx, "/api/dashboard", &d); err != nil {
		return err
	}
	if err := verifyDashboard(&d); err != nil {
		return err
	}

	var all Predictions
	if err := client.GetJSON(ctx, "/api/predictions?sort=predicted_tension&dir=desc", &all); err != nil {
		return err
	}
	if err := verifyDescending(all.Rows); err != nil {
		return err
	}
	if err := verifyCritical(&d, all.Rows); err != nil {
		return err
	}
	if all.Total != d.Total {
		return fmt.Errorf("%w: empty search returned %d of %d rows", ErrVerification, all.Total, d.Total)
	}

	var none Predictions
	if err := client.GetJSON(ctx, "/api/predictions?q="+url.QueryEscape(nonsenseTerm), &none); err != nil {
		return err
	}
	if none.Total != 0 {
		return fmt.Errorf("%w: nonsense search returned %d rows", ErrVerification, none.Total)
	}

	var zones []Zone
	if err := client.GetJSON(ctx, "/api/zones", &zones); err != nil {
		return err
	}
	if err := verifyZones(zones); err != nil {
		return err
	}

	if len(d.Top) > 0 {
		term := d.Top[0].Zone
		var filtered Predictions
		if err := client.GetJSON(ctx, "/api/predictions?q="+url.QueryEscape(term), &filtered); err != nil {
			return err
		}
		if filtered.Total == 0 {
			return fmt.Errorf("%w: no rows for zone %q", ErrVerification, term)
		}
		if err := verifyFiltered(filtered.Rows, term); err != nil {
			return err
		}
	}
	stats.DashboardChecks++
	return nil
}

func listScenes(ctx context.Context, client *HTTPClient) ([]Scene, error) {
	var scenes []Scene
	if err := client.GetJSON(ctx, "/api/scenes", &scenes); err != nil {
		return nil, err
	}
	if len(scenes) == 0 {
		return nil, fmt.Errorf("%w: no scenes", ErrVerification)
	}
	return scenes, nil
}

// sendPointers floods every scene with pointer moves. A full input queue
// answers 429, which counts as throttled rather than failed.
func sendPointers(ctx context.Context, cfg *Config, client *HTTPClient, scenes []Scene, stats *Stats) error {
	var accepted, throttled, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, sc := range scenes {
		for i := 0; i < cfg.Pointers; i++ {
			path := "/api/scenes/" + sc.Name + "/pointer"
			body := map[string]float64{
				"x": float64(i % max(sc.Width, 1)),
				"y": float64(i % max(sc.Height, 1)),
			}
			g.Go(func() error {
				status, _, err := client.Post(gctx, path, body)
				switch classifyInput(status, err) {
				case outcomeAccepted:
					accepted.Add(1)
				case outcomeThrottled:
					throttled.Add(1)
				default:
					failed.Add(1)
					if cfg.Verbose {
						logger.Get().Warn(gctx, "pointer move failed",
							logger.String("path", path), logger.Int("status", status), logger.Error(err))
					}
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	stats.PointersSent = len(scenes) * cfg.Pointers
	stats.PointersAccepted = int(accepted.Load())
	stats.PointersThrottled = int(throttled.Load())
	stats.PointersFailed = int(failed.Load())
	if stats.PointersFailed > 0 {
		return fmt.Errorf("%d pointer moves failed", stats.PointersFailed)
	}
	return nil
}

func classifyInput(status int, err error) string {
	switch {
	case err != nil:
		return outcomeFailed
	case status == http.StatusAccepted:
		return outcomeAccepted
	case status == http.StatusTooManyRequests:
		return outcomeThrottled
	default:
		return outcomeFailed
	}
}

// pullFrames decodes frames of every scene and checks their size.
func pullFrames(ctx context.Context, cfg *Config, client *HTTPClient, scenes []Scene, stats *Stats) error {
	for _, sc := range scenes {
		for i := 0; i < cfg.Frames; i++ {
			status, body, err := client.Get(ctx, "/api/scenes/"+sc.Name+"/frame.png")
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("scene %s: status %d", sc.Name, status)
			}
			img, err := png.Decode(bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("scene %s: %w", sc.Name, err)
			}
			if img.Bounds().Dx() < 1 || img.Bounds().Dy() < 1 {
				return fmt.Errorf("%w: scene %s returned an empty frame", ErrVerification, sc.Name)
			}
			stats.FramesDecoded++
		}
	}
	return nil
}

type chatRequest struct {
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
}

// sendChats asks each question twice with the same id. The replay must be
// reported as a duplicate.
func sendChats(ctx context.Context, cfg *Config, client *HTTPClient, stats *Stats) error {
	var answered, duplicate, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Chats; i++ {
		req := chatRequest{MessageID: uuid.NewString(), Message: questions[i%len(questions)]}
		g.Go(func() error {
			first := classifyChat(client.Post(gctx, "/api/chat", req))
			second := classifyChat(client.Post(gctx, "/api/chat", req))
			if first == outcomeAnswered {
				answered.Add(1)
			} else {
				failed.Add(1)
			}
			if second == outcomeDuplicate {
				duplicate.Add(1)
			} else if first == outcomeAnswered {
				return fmt.Errorf("%w: replay of %s was not flagged as duplicate", ErrVerification, req.MessageID)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	stats.ChatsSent = cfg.Chats * 2
	stats.ChatsAnswered = int(answered.Load())
	stats.ChatsDuplicate = int(duplicate.Load())
	stats.ChatsFailed = int(failed.Load())
	return nil
}

func classifyChat(status int, body []byte, err error) string {
	if err != nil || status != http.StatusOK {
		return outcomeFailed
	}
	var reply ChatReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return outcomeFailed
	}
	switch {
	case reply.Duplicate:
		return outcomeDuplicate
	case reply.Failed:
		return outcomeFailed
	default:
		return outcomeAnswered
	}
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var throttledRate float64
	if stats.PointersSent > 0 {
		throttledRate = float64(stats.PointersThrottled) / float64(stats.PointersSent) * percentageMultiplier
	}
	log.Info(ctx, "final statistics",
		logger.Int("dashboardChecks", stats.DashboardChecks),
		logger.Int("pointersSent", stats.PointersSent),
		logger.Int("pointersAccepted", stats.PointersAccepted),
		logger.Int("pointersThrottled", stats.PointersThrottled),
		logger.Float64("throttledRate", throttledRate),
		logger.Int("framesDecoded", stats.FramesDecoded),
		logger.Int("chatsSent", stats.ChatsSent),
		logger.Int("chatsAnswered", stats.ChatsAnswered),
		logger.Int("chatsDuplicate", stats.ChatsDuplicate),
		logger.Int("chatsFailed", stats.ChatsFailed),
		logger.Duration("duration", stats.Duration))
}
