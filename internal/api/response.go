package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// All responses use a single contract: single-item reads are wrapped in
// {data}, mutations answer {message, id?}, failures answer {message}.

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)   { Error(c, http.StatusConflict, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

func Unauthorized(c *gin.Context, msg string) { Error(c, http.StatusUnauthorized, msg) }
func Forbidden(c *gin.Context, msg string)    { Error(c, http.StatusForbidden, msg) }

// Data wraps a single resource read.
func Data(c *gin.Context, v any) {
	c.JSON(http.StatusOK, gin.H{"data": v})
}

// Message answers a successful mutation without a new id.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Created answers a successful insert with the new row id.
func Created(c *gin.Context, msg string, id uint) {
	c.JSON(http.StatusCreated, gin.H{"message": msg, "id": id})
}
