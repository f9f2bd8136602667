package other

import (
	"html/template"
	"net/url"

	"github.com/expertwinding/storefront/app/utils/breadcrumb"
)

type BasePageData struct {
	Title         string
	ShopName      string
	ShopPhone     string
	AdminPath     string
	CSRFField     template.HTML
	Message       string
	MessageStatus string
	Query         url.Values
	Breadcrumbs   []breadcrumb.Breadcrumb
	IsAdminPage   bool
	IsAdmin       bool
	CurrentPath   string
}
