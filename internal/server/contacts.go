package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/walletwise/walletwise/internal/store"
)

func (s *Server) handleSearchContacts(c *gin.Context) {
	query := c.Query("q")
	contacts, err := s.store.SearchContacts(c.Request.Context(), query, 20)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

func (s *Server) handleSaveContact(c *gin.Context) {
	var contact store.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if contact.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if err := s.store.SaveContact(c.Request.Context(), &contact); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (s *Server) handleListServices(c *gin.Context) {
	services, err := s.store.ListSavedServices(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (s *Server) handleSaveService(c *gin.Context) {
	var service store.SavedService
	if err := c.ShouldBindJSON(&service); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if service.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if err := s.store.SaveService(c.Request.Context(), &service); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}
