package chromedp_crawler

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/popguide/ingest-service/internal/entity"
	"github.com/popguide/ingest-service/pkg/utils"
)

// placeholderTitle is the template card the marketplace renders at the top of every result list.
const placeholderTitle = "shop on ebay"

// ParseSearchResults extracts listing cards from a rendered sold-listings page.
func ParseSearchResults(pageURL, htmlContent string) ([]entity.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	listings := []entity.RawListing{}
	doc.Find("li.s-item, li.s-card").Each(func(_ int, s *goquery.Selection) {
		title := cleanTitle(text(s, ".s-item__title, .s-card__title"))
		if title == "" || strings.EqualFold(title, placeholderTitle) {
			return
		}

		l := entity.RawListing{
			Title:      entity.LooseString(title),
			Price:      entity.LooseString(text(s, ".s-item__price, .s-card__price")),
			Condition:  entity.LooseString(text(s, ".SECONDARY_INFO, .s-card__subtitle")),
			Shipping:   entity.LooseString(text(s, ".s-item__shipping, .s-item__logisticsCost")),
			SoldDate:   entity.LooseString(text(s, ".s-item__caption--signal, .s-item__title--tagblock .POSITIVE")),
			SellerInfo: entity.LooseString(text(s, ".s-item__seller-info-text")),
			Location:   entity.LooseString(strings.TrimPrefix(text(s, ".s-item__location, .s-item__itemLocation"), "from ")),
		}
		if href, ok := s.Find("a.s-item__link, a.su-link").First().Attr("href"); ok {
			if abs, err := utils.ToAbsoluteURL(base, href); err == nil {
				l.ListingURL = entity.LooseString(abs)
			}
		}
		img := s.Find("img").First()
		src, ok := img.Attr("src")
		if !ok || strings.HasPrefix(src, "data:") {
			src, _ = img.Attr("data-src")
		}
		if src != "" {
			if abs, err := utils.ToAbsoluteURL(base, src); err == nil {
				l.ImageURL = entity.LooseString(abs)
			}
		}
		listings = append(listings, l)
	})
	return listings, nil
}

func text(s *goquery.Selection, selector string) string {
	return strings.Join(strings.Fields(s.Find(selector).First().Text()), " ")
}

func cleanTitle(title string) string {
	return strings.TrimSpace(strings.TrimPrefix(title, "New listing"))
}
