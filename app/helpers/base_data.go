package helpers

import (
	"net/http"

	"github.com/expertwinding/storefront/app/models/other"
	"github.com/expertwinding/storefront/app/utils/breadcrumb"
	"github.com/gorilla/csrf"
)

type SiteInfo struct {
	ShopName  string
	ShopPhone string
	AdminPath string
}

// GetBaseData fills the fields every page layout reads, including the flash
// banner carried in the status and message query parameters.
func GetBaseData(r *http.Request, site SiteInfo, title string) other.BasePageData {
	query := r.URL.Query()
	return other.BasePageData{
		Title:         title,
		ShopName:      site.ShopName,
		ShopPhone:     site.ShopPhone,
		AdminPath:     site.AdminPath,
		CSRFField:     csrf.TemplateField(r),
		Message:       query.Get("message"),
		MessageStatus: query.Get("status"),
		Query:         query,
		Breadcrumbs:   []breadcrumb.Breadcrumb{},
		CurrentPath:   r.URL.Path,
	}
}
