package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/expertwinding/storefront/app/cmd"
	"github.com/expertwinding/storefront/app/configs"
	"github.com/expertwinding/storefront/app/models"
	"github.com/expertwinding/storefront/app/services"
	"github.com/expertwinding/storefront/app/utils/logger"
	"github.com/expertwinding/storefront/testhelpers"
	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	adminPath     = "/hidden-admin"
	adminPassword = "s3cret"
)

type RouterSuite struct {
	suite.Suite
	app    *cmd.App
	server *httptest.Server
	client *http.Client
	env    configs.ENV
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func testEnv(t *testing.T) configs.ENV {
	return configs.ENV{
		AppEnv:          "test",
		AdminPath:       adminPath,
		AdminPassword:   adminPassword,
		UploadDir:       filepath.Join(t.TempDir(), "uploads"),
		UploadURLPrefix: "/static/uploads",
		PlaceholderPath: "/static/img-placeholder.png",
		MaxUploadMB:     1,
		ShopName:        "Test Shop",
		ShopPhone:       "+91-0000000000",
		TemplatesDir:    filepath.Join("..", "..", "templates"),
		StaticDir:       filepath.Join("..", "..", "static"),
	}
}

func testKeys(csrf bool) *configs.SessionKeys {
	keys := &configs.SessionKeys{
		AuthKey: securecookie.GenerateRandomKey(64),
		EncKey:  securecookie.GenerateRandomKey(32),
	}
	if csrf {
		keys.CSRFKey = securecookie.GenerateRandomKey(32)
	}
	return keys
}

func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *RouterSuite) SetupTest() {
	s.env = testEnv(s.T())
	db := testhelpers.SetupTestDB(s.T())
	s.app = cmd.NewApp(s.env, db, testKeys(false), logger.Discard())
	s.server = httptest.NewServer(s.app.Router)
	s.T().Cleanup(s.server.Close)
	s.client = newClient(s.T())
}

func (s *RouterSuite) get(path string) *http.Response {
	resp, err := s.client.Get(s.server.URL + path)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *RouterSuite) postForm(path string, form url.Values) *http.Response {
	resp, err := s.client.PostForm(s.server.URL+path, form)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *RouterSuite) postMultipart(path string, fields map[string]string, filename, content string) *http.Response {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		s.Require().NoError(writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		s.Require().NoError(err)
		_, err = io.WriteString(part, content)
		s.Require().NoError(err)
	}
	s.Require().NoError(writer.Close())

	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, &body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *RouterSuite) login() {
	resp := s.postForm(adminPath+"/login", url.Values{"password": {adminPassword}})
	s.Require().Equal(http.StatusSeeOther, resp.StatusCode)
}

func (s *RouterSuite) seed() {
	_, err := s.app.Mutations.SeedDemoData(testContext(), services.AdminAuthorization())
	s.Require().NoError(err)
}

func readAll(t *testing.T, r io.Reader) string {
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func (s *RouterSuite) TestHomeListsProducts() {
	s.seed()

	resp := s.get("/?q=battery")
	s.Equal(http.StatusOK, resp.StatusCode)
	body := readAll(s.T(), resp.Body)
	s.Contains(body, "150 Ah Tubular Battery")
	s.NotContains(body, "5 KVA Transformer")
	s.Contains(body, "₹8,500.00")
}

func (s *RouterSuite) TestAboutPage() {
	resp := s.get("/about")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(readAll(s.T(), resp.Body), "Test Shop")
}

func (s *RouterSuite) TestProductDetail() {
	s.seed()
	products, err := s.app.Catalog.ListProducts(testContext(), models.ProductFilter{Query: "transformer"})
	s.Require().NoError(err)
	s.Require().Len(products, 1)

	resp := s.get("/product/" + uintString(products[0].ID))
	s.Equal(http.StatusOK, resp.StatusCode)
	body := readAll(s.T(), resp.Body)
	s.Contains(body, "5 KVA Transformer")
	s.Contains(body, "/static/img-placeholder.png")

	missing := s.get("/product/9999")
	s.Equal(http.StatusNotFound, missing.StatusCode)
}

func (s *RouterSuite) TestAPIProducts() {
	s.seed()

	resp := s.get("/api/products")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(resp.Header.Get("Content-Type"), "application/json")

	var records []services.ProductRecord
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&records))
	s.Len(records, 3)
	for _, r := range records {
		s.Equal("/static/img-placeholder.png", r.ImageURL)
		s.Require().NotNil(r.Category)
		s.NotNil(r.Specs)
	}

	categoryID := records[0].Category.ID
	filtered := s.get("/api/products?cat=" + uintString(categoryID))
	var byCategory []services.ProductRecord
	s.Require().NoError(json.NewDecoder(filtered.Body).Decode(&byCategory))
	s.Require().Len(byCategory, 1)
	s.Equal(categoryID, byCategory[0].Category.ID)

	ignored := s.get("/api/products?cat=abc")
	var all []services.ProductRecord
	s.Require().NoError(json.NewDecoder(ignored.Body).Decode(&all))
	s.Len(all, 3)
}

func (s *RouterSuite) TestAPIProductNotFound() {
	resp := s.get("/api/products/12345")
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *RouterSuite) TestAPICategories() {
	s.seed()

	resp := s.get("/api/categories")
	s.Equal(http.StatusOK, resp.StatusCode)

	var records []services.CategoryRecord
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&records))
	s.Require().Len(records, 3)
	s.Equal("Batteries", records[0].Name)
}

func (s *RouterSuite) TestAdminRedirectsToLogin() {
	resp := s.get(adminPath + "/admin")
	s.Equal(http.StatusFound, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	s.Require().NoError(err)
	s.Equal(adminPath+"/login", location.Path)
	s.Equal(adminPath+"/admin", location.Query().Get("next"))
}

func (s *RouterSuite) TestAdminMutationsRequireLogin() {
	resp := s.postForm(adminPath+"/delete/1", url.Values{})
	s.Equal(http.StatusFound, resp.StatusCode)

	seed := s.get(adminPath + "/seed")
	s.Equal(http.StatusFound, seed.StatusCode)

	total, err := s.app.Catalog.ListCategories(testContext())
	s.Require().NoError(err)
	s.Empty(total)
}

func (s *RouterSuite) TestLoginWithWrongPassword() {
	resp := s.postForm(adminPath+"/login?next="+url.QueryEscape(adminPath+"/add"), url.Values{"password": {"nope"}})
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	s.Require().NoError(err)
	s.Equal(adminPath+"/login", location.Path)
	s.Equal("Incorrect password.", location.Query().Get("message"))
	s.Equal(adminPath+"/add", location.Query().Get("next"))

	admin := s.get(adminPath + "/admin")
	s.Equal(http.StatusFound, admin.StatusCode)
}

func (s *RouterSuite) TestLoginFollowsNext() {
	resp := s.postForm(adminPath+"/login", url.Values{
		"password": {adminPassword},
		"next":     {adminPath + "/categories"},
	})
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.True(strings.HasPrefix(resp.Header.Get("Location"), adminPath+"/categories?"))

	offsite := s.postForm(adminPath+"/login", url.Values{
		"password": {adminPassword},
		"next":     {"//evil.example.com"},
	})
	s.True(strings.HasPrefix(offsite.Header.Get("Location"), adminPath+"/admin?"))
}

func (s *RouterSuite) TestLoginAndLogout() {
	s.login()

	list := s.get(adminPath + "/admin")
	s.Equal(http.StatusOK, list.StatusCode)

	logout := s.get(adminPath + "/logout")
	s.Equal(http.StatusSeeOther, logout.StatusCode)

	after := s.get(adminPath + "/admin")
	s.Equal(http.StatusFound, after.StatusCode)
}

func (s *RouterSuite) TestAdminSeedAndList() {
	s.login()

	resp := s.get(adminPath + "/seed")
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	list := s.get(adminPath + "/admin")
	body := readAll(s.T(), list.Body)
	s.Contains(body, "60 KVA 3-phase Stabilizer")
	s.Contains(body, "Products (3)")
}

func (s *RouterSuite) TestAdminAddProductWithImage() {
	s.login()

	resp := s.postMultipart(adminPath+"/add", map[string]string{
		"name":  "Copper Winding Wire",
		"price": "450",
	}, "wire.PNG", "png-bytes")
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.True(strings.HasPrefix(resp.Header.Get("Location"), adminPath+"/admin?"))

	products, err := s.app.Catalog.ListProducts(testContext(), models.ProductFilter{})
	s.Require().NoError(err)
	s.Require().Len(products, 1)
	s.Require().NotNil(products[0].ImageFilename)
	s.True(strings.HasSuffix(*products[0].ImageFilename, "_wire.PNG"))

	image := s.get("/static/uploads/" + *products[0].ImageFilename)
	s.Equal(http.StatusOK, image.StatusCode)
	s.Equal("png-bytes", readAll(s.T(), image.Body))

	legacy := s.get("/uploads/" + *products[0].ImageFilename)
	s.Equal(http.StatusOK, legacy.StatusCode)
}

func (s *RouterSuite) TestAdminAddProductWithInvalidImage() {
	s.login()

	resp := s.postMultipart(adminPath+"/add", map[string]string{"name": "Bad"}, "photo.BMP", "bmp")
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	s.Require().NoError(err)
	s.Equal(adminPath+"/add", location.Path)
	s.Equal("Invalid image format.", location.Query().Get("message"))

	products, err := s.app.Catalog.ListProducts(testContext(), models.ProductFilter{})
	s.Require().NoError(err)
	s.Empty(products)
}

func (s *RouterSuite) TestAdminAddProductWithBadPrice() {
	s.login()

	resp := s.postMultipart(adminPath+"/add", map[string]string{"name": "Bad", "price": "lots"}, "", "")
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	s.Contains(readAll(s.T(), resp.Body), "Price must be a number.")
}

func (s *RouterSuite) TestAdminEditAndDelete() {
	s.seed()
	s.login()

	products, err := s.app.Catalog.ListProducts(testContext(), models.ProductFilter{Query: "battery"})
	s.Require().NoError(err)
	s.Require().Len(products, 1)
	id := uintString(products[0].ID)

	form := s.get(adminPath + "/edit/" + id)
	s.Equal(http.StatusOK, form.StatusCode)
	s.Contains(readAll(s.T(), form.Body), "150 Ah Tubular Battery")

	resp := s.postMultipart(adminPath+"/edit/"+id, map[string]string{
		"name":        "200 Ah Tubular Battery",
		"description": "Bigger.",
		"price":       "9900",
	}, "", "")
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	updated, err := s.app.Catalog.GetProduct(testContext(), products[0].ID)
	s.Require().NoError(err)
	s.Equal("200 Ah Tubular Battery", updated.Name)
	s.Nil(updated.CategoryID, "category is cleared when the field is absent")

	deleted := s.postForm(adminPath+"/delete/"+id, url.Values{})
	s.Equal(http.StatusSeeOther, deleted.StatusCode)

	_, err = s.app.Catalog.GetProduct(testContext(), products[0].ID)
	s.ErrorIs(err, models.ErrNotFound)

	again := s.postForm(adminPath+"/delete/"+id, url.Values{})
	s.Equal(http.StatusNotFound, again.StatusCode)

	missingEdit := s.get(adminPath + "/edit/9999")
	s.Equal(http.StatusNotFound, missingEdit.StatusCode)
}

func (s *RouterSuite) TestAdminCategories() {
	s.login()

	resp := s.postForm(adminPath+"/categories/add", url.Values{"name": {"Inverters"}})
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	dup := s.postForm(adminPath+"/categories/add", url.Values{"name": {"Inverters"}})
	location, err := url.Parse(dup.Header.Get("Location"))
	s.Require().NoError(err)
	s.Equal("error", location.Query().Get("status"))

	page := s.get(adminPath + "/categories")
	s.Equal(http.StatusOK, page.StatusCode)
	s.Contains(readAll(s.T(), page.Body), "Inverters")

	categories, err := s.app.Catalog.ListCategories(testContext())
	s.Require().NoError(err)
	s.Require().Len(categories, 1)

	deleted := s.postForm(adminPath+"/categories/delete/"+uintString(categories[0].ID), url.Values{})
	s.Equal(http.StatusSeeOther, deleted.StatusCode)

	categories, err = s.app.Catalog.ListCategories(testContext())
	s.Require().NoError(err)
	s.Empty(categories)
}

func TestAdminFormsRequireCSRFToken(t *testing.T) {
	env := testEnv(t)
	app := cmd.NewApp(env, testhelpers.SetupTestDB(t), testKeys(true), logger.Discard())
	server := httptest.NewServer(app.Router)
	defer server.Close()

	client := newClient(t)
	resp, err := client.PostForm(server.URL+adminPath+"/login", url.Values{"password": {adminPassword}})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLoginPageCarriesCSRFField(t *testing.T) {
	env := testEnv(t)
	app := cmd.NewApp(env, testhelpers.SetupTestDB(t), testKeys(true), logger.Discard())

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, adminPath+"/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="csrf_token"`)
}
