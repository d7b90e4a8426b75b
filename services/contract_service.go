package services

import (
	"context"
	"time"

	"github.com/msb418/contractpulse/models"
	"github.com/msb418/contractpulse/repository"
	"github.com/msb418/contractpulse/ws"
)

// ContractService interface'i — sözleşme iş kuralları.
//
// ownerID her method'un ilk domain parametresidir ve her zaman session'dan
// gelir, asla request gövdesinden. Tenant isolation'ın service ayağı budur.
type ContractService interface {
	List(ctx context.Context, ownerID string, q models.ListQuery) (*models.ContractPage, error)
	Get(ctx context.Context, ownerID, id string) (*models.Contract, error)
	// Create, ham JSON gövdesinden kanonik doküman üretip kaydeder.
	// Eksik alanlar default'lanır — boş gövde bile geçerli bir taslak üretir.
	Create(ctx context.Context, ownerID string, raw map[string]any) (*models.Contract, error)
	// Update, ham gövdeyi whitelist'li patch'e çevirip uygular.
	// Tanınmayan alanlar ve coerce edilemeyen değerler sessizce atlanır.
	Update(ctx context.Context, ownerID, id string, raw map[string]any) (*models.Contract, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// contractService, ContractService implementasyonu.
type contractService struct {
	repo repository.ContractRepository
	hub  ws.EventPublisher
}

// NewContractService, constructor.
func NewContractService(repo repository.ContractRepository, hub ws.EventPublisher) ContractService {
	return &contractService{repo: repo, hub: hub}
}

func (s *contractService) List(ctx context.Context, ownerID string, q models.ListQuery) (*models.ContractPage, error) {
	return s.repo.List(ctx, ownerID, q)
}

func (s *contractService) Get(ctx context.Context, ownerID, id string) (*models.Contract, error) {
	return s.repo.Get(ctx, ownerID, id)
}

func (s *contractService) Create(ctx context.Context, ownerID string, raw map[string]any) (*models.Contract, error) {
	doc := models.NewContractDoc(raw, time.Now())

	contract, err := s.repo.Create(ctx, ownerID, doc)
	if err != nil {
		return nil, err
	}

	// Aynı kullanıcının diğer açık sekmelerine bildir
	s.hub.BroadcastToUser(ownerID, ws.Event{Op: ws.OpContractCreated, Data: contract})

	return contract, nil
}

func (s *contractService) Update(ctx context.Context, ownerID, id string, raw map[string]any) (*models.Contract, error) {
	patch := models.ParseContractPatch(raw)

	contract, err := s.repo.Update(ctx, ownerID, id, patch)
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToUser(ownerID, ws.Event{Op: ws.OpContractUpdated, Data: contract})

	return contract, nil
}

func (s *contractService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}

	s.hub.BroadcastToUser(ownerID, ws.Event{Op: ws.OpContractDeleted, Data: ws.ContractDeletedData{ID: id}})

	return nil
}
