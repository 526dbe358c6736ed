package listing

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gyo-lab/weeklymenu/internal/types"
)

// DefaultContainerSelector matches the board wrapper on the assembly notice list.
const DefaultContainerSelector = "div.board01.pr.td_center.board-added"

// minColumns is the number of cells a row needs to carry a download column.
const minColumns = 7

// Column positions within a listing row (0-based).
const (
	titleColumn    = 2
	dateColumn     = 4
	downloadColumn = 6
)

// downloadHook matches gfn_atchFileDownload('portal', 'menuNo', 'atchFileId', 'fileSn').
var downloadHook = regexp.MustCompile(`gfn_atchFileDownload\(\s*'([^']*)'\s*,\s*'([^']*)'\s*,\s*'([^']*)'\s*,\s*'([^']*)'\s*\)`)

// Row is the raw text of one listing row.
type Row struct {
	Title    string
	DateText string
	OnClick  string
}

// ParseRows extracts listing rows from the board HTML in document order.
// Rows with fewer than seven cells are skipped.
func ParseRows(html, containerSelector string) ([]Row, error) {
	if containerSelector == "" {
		containerSelector = DefaultContainerSelector
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	container := doc.Find(containerSelector).First()
	if container.Length() == 0 {
		return nil, &StructureError{Selector: containerSelector, Message: "board container not found"}
	}
	tbody := container.Find("tbody").First()
	if tbody.Length() == 0 {
		return nil, &StructureError{Selector: containerSelector + " tbody", Message: "board body not found"}
	}

	var rows []Row
	tbody.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td")
		if cells.Length() < minColumns {
			return
		}

		titleCell := cells.Eq(titleColumn)
		title := titleCell.Find("a").First()
		if title.Length() == 0 {
			title = titleCell
		}

		row := Row{
			Title:    strings.TrimSpace(title.Text()),
			DateText: strings.TrimSpace(cells.Eq(dateColumn).Text()),
		}
		if onclick, ok := cells.Eq(downloadColumn).Find("a[onclick]").First().Attr("onclick"); ok {
			row.OnClick = onclick
		}
		rows = append(rows, row)
	})

	return rows, nil
}

// ParseDownloadRef extracts the download hook arguments from an onclick attribute.
func ParseDownloadRef(onclick string) (types.DownloadRef, error) {
	m := downloadHook.FindStringSubmatch(onclick)
	if m == nil {
		return types.DownloadRef{}, &RefError{OnClick: onclick}
	}
	return types.DownloadRef{
		Portal:     m[1],
		MenuNo:     m[2],
		AtchFileID: m[3],
		FileSn:     m[4],
	}, nil
}

// ResolveURL fills a download URL template. Placeholders are {menuNo}, {atchFileId},
// {fileSn} and {historyBackUrl}; values are query-escaped.
func ResolveURL(template string, ref types.DownloadRef, listingURL string) string {
	return strings.NewReplacer(
		"{menuNo}", url.QueryEscape(ref.MenuNo),
		"{atchFileId}", url.QueryEscape(ref.AtchFileID),
		"{fileSn}", url.QueryEscape(ref.FileSn),
		"{historyBackUrl}", url.QueryEscape(listingURL),
	).Replace(template)
}
