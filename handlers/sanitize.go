// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/ailink-app/diagnostico/models"
)

// sanitizeField coerces any JSON scalar to a trimmed string. Objects,
// arrays and null all collapse to "".
func sanitizeField(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizePayload builds the outbound payload from a raw request body,
// stamping the submission date and defaulting horas_semana.
func sanitizePayload(body map[string]interface{}) models.WebhookPayload {
	payload := models.WebhookPayload{
		Nombre:            sanitizeField(body["nombre"]),
		ExperienciaPrevia: sanitizeField(body["experiencia_previa"]),
		Correo:            sanitizeField(body["correo"]),
		PublicoInteres:    sanitizeField(body["publico_interes"]),
		MejoraDeseada:     sanitizeField(body["mejora_deseada"]),
		IdeaLibre:         sanitizeField(body["idea_libre"]),
		HorasSemana:       sanitizeField(body["horas_semana"]),
		Fecha:             time.Now().UTC().Format(time.RFC3339),
	}

	if payload.HorasSemana == "" {
		payload.HorasSemana = models.DefaultHorasSemana
	}

	return payload
}
