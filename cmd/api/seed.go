package main

import (
	"fmt"
	"time"

	"github.com/jhoicas/controle-validade/internal/domain/entity"
	"github.com/jhoicas/controle-validade/internal/infrastructure/memory"
)

// demoProducts días hasta el vencimiento respecto del arranque; cubre los cinco status.
var demoProducts = []struct {
	description string
	days        int
	stock       int
}{
	{"Vacina Antitetânica", -12, 4},
	{"Soro Fisiológico 500ml", -1, 30},
	{"Dipirona 500mg", 2, 120},
	{"Amoxicilina 250mg", 6, 18},
	{"Luvas de Procedimento M", 21, 1500},
	{"Seringa 5ml", 90, 640},
	{"Álcool 70%", 365, 42},
}

// seedDemo carga datos de demostración en el backend en memoria (BACKEND_DRIVER=memory).
func seedDemo(b *memory.Backend, now time.Time) {
	today := entity.DateOf(now)
	for i, p := range demoProducts {
		b.Seed(fmt.Sprintf("demo-%02d", i+1), entity.ProductInput{
			Description:    p.description,
			ExpirationDate: entity.Date{Time: today.AddDate(0, 0, p.days)},
			Stock:          p.stock,
		})
	}
}
