package docs

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed swagger.json
var spec []byte

const uiPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Shop Admin API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>window.ui = SwaggerUIBundle({url: "/api/swagger.json", dom_id: "#swagger-ui"});</script>
</body>
</html>`

// Spec serves the OpenAPI document.
func Spec(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", spec)
}

// UI serves a Swagger UI page pointed at Spec.
func UI(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(uiPage))
}
