package handlers

import (
	"io"
	"log"
	"net/url"
	"strings"

	"projectdrive/internal/services"

	"github.com/gofiber/fiber/v2"
)

// allowedMimeTypes lists the content types accepted for upload.
var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg":      true,
	"image/png":       true,
	"video/mp4":       true,
	"audio/mpeg":      true,
	"application/zip": true,
	"text/plain":      true,
}

// DriveHandler handles HTTP requests for uploading, listing and downloading files.
type DriveHandler struct {
	driveService *services.DriveService
}

// NewDriveHandler creates a new DriveHandler.
func NewDriveHandler(driveService *services.DriveService) *DriveHandler {
	return &DriveHandler{
		driveService: driveService,
	}
}

// RegisterRoutes registers the drive routes with the Fiber app.
// All of these routes require authentication.
func (h *DriveHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/home", h.HandleHome)
	router.Post("/upload", h.HandleUpload)
	router.Get("/download/+", h.HandleDownload)
}

// currentUserID returns the authenticated user's ID stored by the auth middleware.
func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("user_id").(string)
	return userID, ok && userID != ""
}

// HandleHome lists the caller's files, each enriched with a signed URL.
func (h *DriveHandler) HandleHome(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	files, err := h.driveService.ListFiles(c.UserContext(), userID)
	if err != nil {
		log.Printf("Error listing files for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve files",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"files": files,
	})
}

// HandleUpload accepts a multipart upload in the "file" field, stores it
// remotely and redirects to the listing view.
func (h *DriveHandler) HandleUpload(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No file uploaded",
		})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedMimeTypes[contentType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unsupported file type",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not read uploaded file",
			"error":   err.Error(),
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Printf("Error reading uploaded file %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not read uploaded file",
			"error":   err.Error(),
		})
	}

	if _, err := h.driveService.Upload(c.UserContext(), userID, fileHeader.Filename, data, contentType); err != nil {
		log.Printf("Error uploading file %s for user %s: %v", fileHeader.Filename, userID, err)
		if strings.Contains(err.Error(), "already exists") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Upload failed",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not upload file",
			"error":   err.Error(),
		})
	}

	return c.Redirect("/home", fiber.StatusFound)
}

// HandleDownload redirects the caller to a short-lived signed URL for the
// requested storage key, provided the caller owns it.
func (h *DriveHandler) HandleDownload(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	// The storage key contains a path separator, so the route uses a
	// wildcard and the key may arrive URL-encoded.
	storageKey, err := url.PathUnescape(c.Params("+"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid storage key",
		})
	}

	signedURL, err := h.driveService.DownloadURL(c.UserContext(), userID, storageKey)
	if err != nil {
		// Absent and not-owned are deliberately the same response.
		if strings.Contains(err.Error(), "access denied") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
			})
		}
		log.Printf("Error signing download URL for %s: %v", storageKey, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not generate download link",
			"error":   err.Error(),
		})
	}

	return c.Redirect(signedURL, fiber.StatusFound)
}
