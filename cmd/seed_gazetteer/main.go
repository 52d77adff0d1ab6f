package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/route-planner/app/config"
	"github.com/route-planner/internal/geocoder"
)

// PlaceDoc document trong gazetteer index
type PlaceDoc struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	NormalizedName string  `json:"normalized_name"`
	DisplayName    string  `json:"display_name"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
}

// placeRecord một dòng trong file nguồn; lat/lon có thể là số hoặc chuỗi (dump Nominatim)
type placeRecord struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name"`
	Lat         json.RawMessage `json:"lat"`
	Lon         json.RawMessage `json:"lon"`
}

func main() {
	configFile := flag.String("config", "", "đường dẫn file cấu hình yaml")
	input := flag.String("input", "places.json", "file JSON chứa mảng places")
	batchSize := flag.Int("batch", 1000, "số documents mỗi batch")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal("Không thể load config:", err)
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Fatal("Không thể mở file input:", err)
	}
	defer f.Close()

	documents, skipped, err := loadPlaces(f)
	if err != nil {
		log.Fatal("Lỗi đọc places:", err)
	}
	fmt.Printf("Đọc được %d places (bỏ qua %d)\n", len(documents), skipped)

	// Meilisearch connection
	meiliCfg := cfg.Geocoder.Meilisearch
	meiliClient := meilisearch.New(meiliCfg.URL, meilisearch.WithAPIKey(meiliCfg.APIKey))

	health, err := meiliClient.Health()
	if err != nil {
		log.Fatal("Không thể kết nối Meilisearch:", err)
	}
	fmt.Printf("Meilisearch status: %s\n", health.Status)

	index := meiliClient.Index(meiliCfg.Index)

	fmt.Println("Đang cấu hình Meilisearch index settings...")
	settings := &meilisearch.Settings{
		SearchableAttributes: []string{"name", "normalized_name", "display_name"},
		RankingRules: []string{
			"words",
			"typo",
			"proximity",
			"attribute",
			"exactness",
		},
	}

	task, err := index.UpdateSettings(settings)
	if err != nil {
		log.Fatal("Lỗi cập nhật settings:", err)
	}

	fmt.Println("Đang chờ settings update hoàn thành...")
	for {
		taskInfo, err := meiliClient.GetTask(task.TaskUID)
		if err != nil {
			log.Fatal("Lỗi check task status:", err)
		}
		if taskInfo.Status == "succeeded" {
			fmt.Println("Settings update thành công!")
			break
		} else if taskInfo.Status == "failed" {
			log.Fatal("Settings update thất bại:", taskInfo.Error)
		}
		time.Sleep(1 * time.Second)
	}

	totalProcessed := 0
	for _, batch := range batches(documents, *batchSize) {
		if err := insertBatch(index, batch); err != nil {
			log.Printf("Lỗi insert batch: %v", err)
			continue
		}
		totalProcessed += len(batch)
		fmt.Printf("Đã xử lý %d documents...\n", totalProcessed)
	}

	fmt.Printf("Hoàn thành! Đã seed %d places vào index %s\n", totalProcessed, meiliCfg.Index)
}

// loadPlaces đọc mảng JSON places, bỏ qua record thiếu tên hoặc toạ độ
func loadPlaces(r io.Reader) ([]PlaceDoc, int, error) {
	var records []placeRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, 0, err
	}

	documents := make([]PlaceDoc, 0, len(records))
	skipped := 0
	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		lat, latOK := parseNumber(rec.Lat)
		lon, lonOK := parseNumber(rec.Lon)
		if name == "" || !latOK || !lonOK {
			skipped++
			continue
		}

		displayName := rec.DisplayName
		if displayName == "" {
			displayName = name
		}
		documents = append(documents, PlaceDoc{
			ID:             placeID(name, lat, lon),
			Name:           name,
			NormalizedName: geocoder.FoldASCII(name),
			DisplayName:    displayName,
			Lat:            lat,
			Lon:            lon,
		})
	}
	return documents, skipped, nil
}

// placeID ID ổn định để seed lại không tạo bản trùng
func placeID(name string, lat, lon float64) string {
	key := name + "|" + strconv.FormatFloat(lat, 'f', -1, 64) + "|" + strconv.FormatFloat(lon, 'f', -1, 64)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func batches(documents []PlaceDoc, size int) [][]PlaceDoc {
	if size <= 0 {
		size = 1000
	}
	var out [][]PlaceDoc
	for start := 0; start < len(documents); start += size {
		end := start + size
		if end > len(documents) {
			end = len(documents)
		}
		out = append(out, documents[start:end])
	}
	return out
}

func insertBatch(index meilisearch.IndexManager, documents []PlaceDoc) error {
	docs := make([]interface{}, len(documents))
	for i, doc := range documents {
		docs[i] = doc
	}

	_, err := index.AddDocuments(docs, "id")
	return err
}
