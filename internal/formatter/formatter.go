// package formatter provides functions to export closet inventory data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/closet/internal/models"
	"github.com/desertthunder/closet/internal/shared"
)

// ExportToCSV converts a Closet to CSV format with one row per clothing item.
func ExportToCSV(closet *models.Closet) ([]byte, error) {
	if closet == nil {
		return nil, fmt.Errorf("%w: nil closet", shared.ErrInvalidInput)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Type", "Color", "Material", "Style", "ExtraInfo", "SourceImage", "ImageURL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range closet.Items {
		record := []string{
			item.ID,
			item.Type,
			item.Color,
			item.Material,
			item.Style,
			item.ExtraInfo,
			item.SourceImageKey,
			item.ImageURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a grouped inventory to Markdown, one section per
// source image. imagePaths maps a source image key to a locally downloaded
// file to embed; groups without an entry fall back to the remote URL.
func ExportToMarkdown(grouping *models.Grouping, title string, imagePaths map[string]string) ([]byte, error) {
	if grouping == nil {
		return nil, fmt.Errorf("%w: nil grouping", shared.ErrInvalidInput)
	}
	if title == "" {
		title = "Closet Inventory"
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Photos**: %d\n\n", grouping.Len()))

	for _, group := range grouping.Groups() {
		buf.WriteString(fmt.Sprintf("## %s\n\n", group.Key))

		if local, ok := imagePaths[group.Key]; ok && local != "" {
			buf.WriteString(fmt.Sprintf("![Source photo](%s)\n\n", local))
		} else if group.ImageURL != "" {
			buf.WriteString(fmt.Sprintf("![Source photo](%s)\n\n", group.ImageURL))
		}

		for i, item := range group.Items {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, DescribeItem(item)))
			if item.HasExtraInfo() {
				buf.WriteString(fmt.Sprintf("   Details: %s\n", item.ExtraInfo))
			}
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a grouped inventory to plain text format.
func ExportToText(grouping *models.Grouping, title string) ([]byte, error) {
	if grouping == nil {
		return nil, fmt.Errorf("%w: nil grouping", shared.ErrInvalidInput)
	}
	if title == "" {
		title = "Closet Inventory"
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", title))
	buf.WriteString(fmt.Sprintf("Photos: %d\n\n", grouping.Len()))

	for _, group := range grouping.Groups() {
		buf.WriteString(fmt.Sprintf("%s (%d items)\n", group.Key, len(group.Items)))
		for i, item := range group.Items {
			buf.WriteString(fmt.Sprintf("  %d. %s\n", i+1, DescribeItem(item)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// DescribeItem renders a one-line human description of a clothing item.
func DescribeItem(item models.ClothingItem) string {
	desc := item.Type
	if item.Color != "" {
		desc = item.Color + " " + desc
	}

	switch {
	case item.Material != "" && item.Style != "":
		return fmt.Sprintf("%s (%s, %s)", desc, item.Material, item.Style)
	case item.Material != "":
		return fmt.Sprintf("%s (%s)", desc, item.Material)
	case item.Style != "":
		return fmt.Sprintf("%s (%s)", desc, item.Style)
	default:
		return desc
	}
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}
