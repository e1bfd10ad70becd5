package studio

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/gofiber/fiber/v2"

	"github.com/Rana718/retailsim/internal/export"
	"github.com/Rana718/retailsim/internal/storage"
)

type Server struct {
	app     *fiber.App
	service *Service
	port    int
}

func NewServer(service *Service, port int) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "retailsim studio",
		DisableStartupMessage: true,
	})

	server := &Server{
		app:     app,
		service: service,
		port:    port,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.app.Get("/", s.handleIndex)

	// API
	api := s.app.Group("/api")
	api.Get("/columns", s.handleGetColumns)
	api.Get("/rows", s.handleGetRows)
	api.Get("/rows/:index", s.handleGetRow)
	api.Get("/summary", s.handleGetSummary)
	api.Get("/validate", s.handleValidate)
	api.Get("/export/:format", s.handleExport)
	api.Post("/regenerate", s.handleRegenerate)
}

// App exposes the fiber app for in-process requests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start(openBrowser bool) error {
	url := fmt.Sprintf("http://localhost:%d", s.port)

	fmt.Printf("🚀 retailsim studio starting on %s\n", url)

	if openBrowser {
		go s.openBrowser(url + "/api/summary")
	}

	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	exec.Command(cmd, args...).Start()
}

// Handlers
func (s *Server) handleIndex(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"title": "retailsim studio",
		"run":   s.service.Info(),
		"endpoints": []string{
			"/api/columns", "/api/rows", "/api/rows/:index", "/api/summary",
			"/api/validate", "/api/export/:format", "/api/regenerate",
		},
	})
}

func (s *Server) handleGetColumns(c *fiber.Ctx) error {
	return c.JSON(s.service.Columns())
}

func (s *Server) handleGetRows(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", defaultPageSize)
	return c.JSON(s.service.Rows(offset, limit, c.Query("status")))
}

func (s *Server) handleGetRow(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid row index"})
	}
	row, ok := s.service.Row(index)
	if !ok {
		return c.Status(404).JSON(fiber.Map{"error": fmt.Sprintf("Row %d not found", index)})
	}
	return c.JSON(row)
}

func (s *Server) handleGetSummary(c *fiber.Ctx) error {
	return c.JSON(s.service.Summary())
}

func (s *Server) handleValidate(c *fiber.Ctx) error {
	report := s.service.Validate()
	status := 200
	if !report.OK() {
		status = 422
	}
	return c.Status(status).JSON(report)
}

func (s *Server) handleExport(c *fiber.Ctx) error {
	format := c.Params("format")
	body, name, err := s.service.Export(c.UserContext(), format)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, storage.ContentType(name))
	return c.Send(body)
}

func (s *Server) handleRegenerate(c *fiber.Ctx) error {
	var req RegenerateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
		}
	}
	info, err := s.service.Regenerate(c.UserContext(), req)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(Response{Success: true, Message: "Table regenerated", Data: info})
}
