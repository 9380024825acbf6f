package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/candle.works/internal/costing"
	"github.com/Simplici0/candle.works/internal/importer"
)

type importResponse struct {
	Imported []costing.VesselGeometry `json:"imported"`
	Rejected []importer.RowError      `json:"rejected"`
}

func (s *server) handleVesselsList(w http.ResponseWriter, r *http.Request) {
	vessels, err := s.store.ListVessels(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vessels)
}

func (s *server) handleVesselsCreate(w http.ResponseWriter, r *http.Request) {
	var v costing.VesselGeometry
	if err := decodeJSON(r, &v); err != nil {
		s.writeError(w, r, err)
		return
	}
	if v.Unit == "" {
		v.Unit = costing.UnitInches
	}

	created, err := s.store.CreateVessel(r.Context(), v)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleVesselsImport accepts a raw .xlsx body. Valid rows are stored in one
// transaction; invalid rows are reported back and skipped.
func (s *server) handleVesselsImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	vessels, rejected, err := importer.ParseVessels(body)
	if err != nil {
		if !errors.Is(err, importer.ErrMissingColumn) {
			err = badRequest("%v", err)
		}
		s.writeError(w, r, err)
		return
	}

	imported := []costing.VesselGeometry{}
	if len(vessels) > 0 {
		imported, err = s.store.CreateVessels(r.Context(), vessels)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if rejected == nil {
		rejected = []importer.RowError{}
	}

	s.log.Info("vessels imported", zap.Int("imported", len(imported)), zap.Int("rejected", len(rejected)))
	writeJSON(w, http.StatusCreated, importResponse{Imported: imported, Rejected: rejected})
}

func (s *server) handleVesselGet(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.GetVessel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) handleVesselDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteVessel(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleMaterialsGet(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.GetMaterialConfig(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *server) handleMaterialsUpdate(w http.ResponseWriter, r *http.Request) {
	var cfg costing.MaterialConfiguration
	if err := decodeJSON(r, &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdateMaterialConfig(r.Context(), cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *server) handleInventoryGet(w http.ResponseWriter, r *http.Request) {
	inv, err := s.store.GetInventory(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *server) handleInventoryUpdate(w http.ResponseWriter, r *http.Request) {
	var inv costing.InventoryLevels
	if err := decodeJSON(r, &inv); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdateInventory(r.Context(), inv); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}
