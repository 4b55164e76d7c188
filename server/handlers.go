package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scriptbench/scriptbench/config"
	"github.com/scriptbench/scriptbench/report"
)

const sessionCookie = "session"

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleSignup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	ok, message := s.auth.Signup(req.Username, req.Password)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}

	if err := report.LogSignup(s.cfg.SignupLogPath, strings.TrimSpace(req.Username)); err != nil {
		// The signup itself succeeded; the spreadsheet log is best effort.
		s.log.Errorw("signup log failed", "error", err)
	}
	c.JSON(http.StatusCreated, gin.H{"message": message})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	if !s.auth.Login(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token := s.sessions.Create(strings.TrimSpace(req.Username))
	c.SetCookie(sessionCookie, token, int(s.sessions.TTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

func (s *Server) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		s.sessions.Destroy(token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// requireSession resolves the session cookie and stores the username on the
// request context.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		username, ok := s.sessions.Lookup(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		c.Set("username", username)
		c.Next()
	}
}

func (s *Server) handleUpload(c *gin.Context) {
	username := c.GetString("username")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}

	filename, filetype, ok := sanitizeUpload(fileHeader.Filename)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .py or .sql files allowed"})
		return
	}

	userDir := filepath.Join(s.cfg.UploadDir, username)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		s.log.Errorw("upload dir create failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	savePath := filepath.Join(userDir, filename)
	if err := c.SaveUploadedFile(fileHeader, savePath); err != nil {
		s.log.Errorw("upload save failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	uploadsTotal.WithLabelValues(filetype).Inc()
	s.runAndRespond(c, username, savePath, filename, filetype)
}

func (s *Server) handleRerun(c *gin.Context) {
	username := c.GetString("username")

	filename, filetype, ok := sanitizeUpload(c.Param("filename"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .py or .sql files allowed"})
		return
	}

	path := filepath.Join(s.cfg.UploadDir, username, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	s.runAndRespond(c, username, path, filename, filetype)
}

// runAndRespond executes the script, analyzes it, persists both results and
// renders the combined response. Shared by upload and rerun.
func (s *Server) runAndRespond(c *gin.Context, username, path, filename, filetype string) {
	user, err := s.store.UserByName(username)
	if err != nil || user == nil {
		s.log.Errorw("user lookup failed", "username", username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found"})
		return
	}

	fileID, err := s.store.UpsertFile(user.ID, filename, path, filetype)
	if err != nil {
		s.log.Errorw("file record failed", "filename", filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging file upload"})
		return
	}

	perf, err := s.run(c.Request.Context(), path, filetype)
	if err != nil {
		s.log.Errorw("execution failed", "filename", filename, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error executing file"})
		return
	}

	sec := s.analyze(path, filetype)
	analysesTotal.WithLabelValues(string(sec.RiskLevel)).Inc()

	if err := s.reports.WriteCombined(username, perf, sec); err != nil {
		s.log.Errorw("combined report failed", "error", err)
	}
	if err := s.reports.AppendPerformance(username, perf); err != nil {
		s.log.Errorw("performance report failed", "error", err)
	}
	if err := s.store.LogExecution(user.ID, fileID, perf.ExecTime, perf.PeakMemoryMB, sec); err != nil {
		s.log.Errorw("execution log failed", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"performance": perf,
		"security":    sec,
	})
}

// handleReport serves the latest persisted run of a previously uploaded
// file without re-executing it.
func (s *Server) handleReport(c *gin.Context) {
	username := c.GetString("username")

	filename, _, ok := sanitizeUpload(c.Param("filename"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .py or .sql files allowed"})
		return
	}

	user, err := s.store.UserByName(username)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found"})
		return
	}

	file, err := s.store.FileByName(user.ID, filename)
	if err != nil {
		s.log.Errorw("file lookup failed", "filename", filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading report"})
		return
	}
	if file == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	run, err := s.store.LatestRun(file.ID)
	if err != nil {
		s.log.Errorw("run lookup failed", "filename", filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading report"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No runs recorded for this file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": run})
}

func (s *Server) handleHistory(c *gin.Context) {
	username := c.GetString("username")

	user, err := s.store.UserByName(username)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found"})
		return
	}

	history, err := s.store.History(user.ID)
	if err != nil {
		s.log.Errorw("history fetch failed", "username", username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// sanitizeUpload strips any path components from a client-supplied filename
// and validates the extension against the allowed set.
func sanitizeUpload(name string) (filename, filetype string, ok bool) {
	filename = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if filename == "" || filename == "." || filename == ".." {
		return "", "", false
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" || !config.AllowedExtensions[ext] {
		return "", "", false
	}
	return filename, ext, true
}
