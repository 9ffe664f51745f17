package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/marketplace-payments/internal/model"
)

var errStoreDown = errors.New("store down")

// fakeStore keeps the marketplace in memory and implements every
// repository interface the services depend on.
type fakeStore struct {
	mu        sync.Mutex
	profiles  map[int64]model.Profile
	contracts map[int64]model.Contract
	jobs      map[int64]model.Job

	failApply  error
	applyCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:  map[int64]model.Profile{},
		contracts: map[int64]model.Contract{},
		jobs:      map[int64]model.Job{},
	}
}

func (f *fakeStore) addProfile(id int64, t model.ProfileType, balance string) model.Profile {
	p := model.Profile{ID: id, FirstName: "P", LastName: decimal.NewFromInt(id).String(), Type: t, Balance: decimal.RequireFromString(balance)}
	if t == model.ProfileTypeContractor {
		p.Profession = "Programmer"
	}
	f.profiles[id] = p
	return p
}

func (f *fakeStore) addContract(id, clientID, contractorID int64, status model.ContractStatus) {
	f.contracts[id] = model.Contract{ID: id, ClientID: clientID, ContractorID: contractorID, Status: status}
}

func (f *fakeStore) addJob(id, contractID int64, price string) {
	f.jobs[id] = model.Job{ID: id, ContractID: contractID, Price: decimal.RequireFromString(price)}
}

func (f *fakeStore) markPaid(id int64, at time.Time) {
	j := f.jobs[id]
	paid := true
	j.Paid = &paid
	j.PaymentDate = &at
	f.jobs[id] = j
}

func (f *fakeStore) balance(id int64) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[id].Balance
}

func (f *fakeStore) GetProfile(_ context.Context, id int64) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakeStore) ListProfiles(_ context.Context) ([]model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []model.Profile{}
	for _, p := range f.profiles {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeStore) ApplyDeposit(_ context.Context, profileID int64, amount decimal.Decimal, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalls++
	if f.failApply != nil {
		return f.failApply
	}
	p, ok := f.profiles[profileID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Balance = p.Balance.Add(amount)
	f.profiles[profileID] = p
	return nil
}

func (f *fakeStore) GetContract(_ context.Context, id int64, owner model.Ownership) (*model.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contracts[id]
	if !ok || !owner.Owns(c) {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (f *fakeStore) ListActiveContracts(_ context.Context, owner model.Ownership) ([]model.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []model.Contract{}
	for _, c := range f.contracts {
		if owner.Owns(c) && c.Status != model.ContractStatusTerminated {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeStore) ownedJobs(owner model.Ownership, keep func(model.Job, model.Contract) bool) []model.Job {
	result := []model.Job{}
	for _, j := range f.jobs {
		c := f.contracts[j.ContractID]
		if owner.Owns(c) && keep(j, c) {
			result = append(result, j)
		}
	}
	sort.Slice(result, func(a, b int) bool { return result[a].ID < result[b].ID })
	return result
}

func (f *fakeStore) ListJobs(_ context.Context, owner model.Ownership) ([]model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ownedJobs(owner, func(model.Job, model.Contract) bool { return true }), nil
}

func (f *fakeStore) ListUnpaidJobs(_ context.Context, owner model.Ownership) ([]model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ownedJobs(owner, func(j model.Job, c model.Contract) bool {
		return j.Paid == nil && c.Status != model.ContractStatusTerminated
	}), nil
}

func (f *fakeStore) SumUnpaidJobs(_ context.Context, owner model.Ownership) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, j := range f.ownedJobs(owner, func(j model.Job, _ model.Contract) bool { return j.Paid == nil }) {
		total = total.Add(j.Price)
	}
	return total, nil
}

func (f *fakeStore) GetJobPayment(_ context.Context, jobID int64, owner model.Ownership) (*model.JobPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[jobID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := f.contracts[j.ContractID]
	if !owner.Owns(c) {
		return nil, gorm.ErrRecordNotFound
	}
	return &model.JobPayment{
		Job:               j,
		ClientID:          c.ClientID,
		ClientBalance:     f.profiles[c.ClientID].Balance,
		ContractorID:      c.ContractorID,
		ContractorBalance: f.profiles[c.ContractorID].Balance,
	}, nil
}

// ApplyPayment mirrors the guarded updates of the SQL repository: either
// every write lands or none does.
func (f *fakeStore) ApplyPayment(_ context.Context, transfer model.Transfer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalls++
	if f.failApply != nil {
		return f.failApply
	}
	j := f.jobs[transfer.JobID]
	client := f.profiles[transfer.ClientID]
	contractor := f.profiles[transfer.ContractorID]
	if j.IsPaid() || client.Balance.LessThan(transfer.Amount) {
		return errors.New("guard matched no rows")
	}
	paid := true
	at := transfer.PaidAt
	j.Paid = &paid
	j.PaymentDate = &at
	client.Balance = client.Balance.Sub(transfer.Amount)
	contractor.Balance = contractor.Balance.Add(transfer.Amount)
	f.jobs[j.ID] = j
	f.profiles[client.ID] = client
	f.profiles[contractor.ID] = contractor
	return nil
}

func (f *fakeStore) ProfessionEarnings(_ context.Context, from, to time.Time) ([]model.ProfessionEarnings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sums := map[string]decimal.Decimal{}
	for _, j := range f.paidBetween(from, to) {
		profession := f.profiles[f.contracts[j.ContractID].ContractorID].Profession
		sums[profession] = sums[profession].Add(j.Price)
	}
	rows := []model.ProfessionEarnings{}
	for profession, amount := range sums {
		rows = append(rows, model.ProfessionEarnings{Profession: profession, Amount: amount})
	}
	sort.Slice(rows, func(a, b int) bool {
		if !rows[a].Amount.Equal(rows[b].Amount) {
			return rows[a].Amount.GreaterThan(rows[b].Amount)
		}
		return rows[a].Profession < rows[b].Profession
	})
	return rows, nil
}

func (f *fakeStore) ClientPayments(_ context.Context, from, to time.Time, limit int) ([]model.ClientPayments, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sums := map[int64]decimal.Decimal{}
	for _, j := range f.paidBetween(from, to) {
		clientID := f.contracts[j.ContractID].ClientID
		sums[clientID] = sums[clientID].Add(j.Price)
	}
	rows := []model.ClientPayments{}
	for id, amount := range sums {
		rows = append(rows, model.ClientPayments{ID: id, Name: f.profiles[id].FullName(), Amount: amount})
	}
	sort.Slice(rows, func(a, b int) bool {
		if !rows[a].Amount.Equal(rows[b].Amount) {
			return rows[a].Amount.GreaterThan(rows[b].Amount)
		}
		return rows[a].ID < rows[b].ID
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeStore) paidBetween(from, to time.Time) []model.Job {
	var result []model.Job
	for _, j := range f.jobs {
		if j.IsPaid() && j.PaymentDate != nil && !j.PaymentDate.Before(from) && !j.PaymentDate.After(to) {
			result = append(result, j)
		}
	}
	return result
}
