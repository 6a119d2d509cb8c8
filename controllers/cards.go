package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/gwent-backend/game"
)

// ListCards returns every card definition in the catalog
func ListCards(cat *game.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"cards":    cat.SortedDefinitions(),
			"factions": game.PlayableFactions,
		})
	}
}

// FactionDeck returns the starter deck and leader of one faction
func FactionDeck(cat *game.Catalog) gin.HandlerFunc {
	factory := game.NewDeckFactory(cat)
	return func(c *gin.Context) {
		faction := game.Faction(c.Param("faction"))
		deck, err := factory.StarterDeck(faction)
		if errors.Is(err, game.ErrUnknownFaction) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Faction not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		size := 0
		for _, dc := range deck {
			size += dc.Copies
		}
		leader, _ := cat.Definition(cat.Leaders[faction])
		c.JSON(http.StatusOK, gin.H{
			"faction": faction,
			"leader":  leader,
			"size":    size,
			"cards":   deck,
		})
	}
}
