package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicedesk/invoicedesk/internal/db"
	"github.com/invoicedesk/invoicedesk/models"
	"github.com/invoicedesk/invoicedesk/store"
)

type fakeManagers struct {
	store.ManagerStore
	byName map[string]*models.Manager
}

func (f *fakeManagers) GetByName(_ context.Context, _ db.Querier, name string) (*models.Manager, error) {
	if m, ok := f.byName[name]; ok {
		return m, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeManagers) GetByEmail(_ context.Context, _ db.Querier, email string) (*models.Manager, error) {
	for _, m := range f.byName {
		if m.Email == email {
			return m, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeClients struct {
	store.ClientStore
	byName map[string]*models.Client
}

func (f *fakeClients) GetByName(_ context.Context, _ db.Querier, name string) (*models.Client, error) {
	if c, ok := f.byName[strings.ToLower(name)]; ok {
		return c, nil
	}
	return nil, store.ErrNotFound
}

type fakeInvoices struct {
	store.InvoiceStore
	all      []models.Invoice
	byClient map[int64][]models.Invoice
}

func (f *fakeInvoices) GetAll(_ context.Context, _ db.Querier) ([]models.Invoice, error) {
	return f.all, nil
}

func (f *fakeInvoices) GetByClientID(_ context.Context, _ db.Querier, clientID int64) ([]models.Invoice, error) {
	return f.byClient[clientID], nil
}

type fakeReports struct {
	store.ReportStore
	saved   []models.ReportCreate
	saveErr error
}

func (f *fakeReports) Save(_ context.Context, _ db.Querier, in models.ReportCreate) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, in)
	return nil
}

type countingProvider struct {
	calls  int
	output string
	err    error
}

func (p *countingProvider) GenerateReport(_ context.Context, _, _ string) (string, error) {
	p.calls++
	return p.output, p.err
}

type captureMailer struct {
	to      string
	subject string
	body    string
	sends   int
	err     error
}

func (m *captureMailer) SendHTML(_ context.Context, to, subject, htmlBody, _ string) error {
	m.sends++
	m.to, m.subject, m.body = to, subject, htmlBody
	return m.err
}

func issued(date string) time.Time {
	t, _ := time.Parse("2006-01-02", date)
	return t
}

func newFixture() (*Service, *countingProvider, *captureMailer, *fakeReports) {
	managers := &fakeManagers{byName: map[string]*models.Manager{
		"Alice": {ID: 1, Name: "Alice", Email: "alice@example.com"},
	}}
	acme := &models.Client{ID: 10, Name: "Acme", Email: "billing@acme.test"}
	clients := &fakeClients{byName: map[string]*models.Client{"acme": acme}}
	invoices := &fakeInvoices{
		all: []models.Invoice{
			{ID: 1, ClientID: 10, Amount: "100.00", IssuedAt: issued("2024-03-05"), Status: models.StatusPaid},
			{ID: 2, ClientID: 10, Amount: "250.50", IssuedAt: issued("2024-04-01"), Status: models.StatusPending},
			{ID: 3, ClientID: 11, Amount: "75.00", IssuedAt: issued("2023-12-20"), Status: models.StatusCanceled},
		},
	}
	invoices.byClient = map[int64][]models.Invoice{10: invoices.all[:2], 11: invoices.all[2:]}

	provider := &countingProvider{output: "<h1>Report</h1><p>All good.</p>"}
	mailer := &captureMailer{}
	reports := &fakeReports{}
	svc := NewService(clients, invoices, managers, reports, provider, mailer)
	svc.chart = func([]models.Invoice) ([]byte, error) { return []byte{0x89, 'P', 'N', 'G'}, nil }
	return svc, provider, mailer, reports
}

func TestGenerateFullPipeline(t *testing.T) {
	svc, provider, mailer, reports := newFixture()

	res, err := svc.Generate(context.Background(), Request{ManagerName: "Alice", ClientName: "Acme"})
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.True(t, res.Saved)
	assert.False(t, res.NoData)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, 1, mailer.sends)
	assert.Equal(t, "alice@example.com", mailer.to)
	assert.Contains(t, mailer.subject, "Acme")
	assert.Contains(t, mailer.body, "<h1>Report</h1>")
	assert.Contains(t, mailer.body, "data:image/png;base64,", "chart should be inlined")

	require.Len(t, reports.saved, 1)
	saved := reports.saved[0]
	assert.Equal(t, "alice@example.com", saved.ManagerEmail)
	assert.Equal(t, "client", saved.ReportType)
	require.NotNil(t, saved.ClientName)
	assert.Equal(t, "Acme", *saved.ClientName)
	assert.Equal(t, mailer.body, saved.ReportText)
}

func TestGenerateUnauthorizedManagerNeverCallsModel(t *testing.T) {
	svc, provider, mailer, _ := newFixture()

	_, err := svc.Generate(context.Background(), Request{ManagerName: "Mallory"})
	require.Error(t, err)
	var unauthorized *UnauthorizedManagerError
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, "Mallory", unauthorized.Identity)
	assert.Contains(t, err.Error(), "not authorized")
	assert.Equal(t, 0, provider.calls)
	assert.Equal(t, 0, mailer.sends)
}

func TestGenerateResolvesManagerByEmail(t *testing.T) {
	svc, _, mailer, _ := newFixture()

	res, err := svc.Generate(context.Background(), Request{ManagerEmail: "alice@example.com"})
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.Equal(t, "alice@example.com", mailer.to)
}

func TestGenerateRequiresManagerIdentity(t *testing.T) {
	svc, provider, _, _ := newFixture()

	_, err := svc.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manager_name or manager_email")
	assert.Equal(t, 0, provider.calls)
}

func TestGenerateUsesRequestedReportType(t *testing.T) {
	svc, _, _, reports := newFixture()

	_, err := svc.Generate(context.Background(), Request{ManagerName: "Alice", ReportType: "executive"})
	require.NoError(t, err)
	require.Len(t, reports.saved, 1)
	assert.Equal(t, "executive", reports.saved[0].ReportType)
}

func TestGenerateUnknownClient(t *testing.T) {
	svc, provider, _, _ := newFixture()

	_, err := svc.Generate(context.Background(), Request{ManagerName: "Alice", ClientName: "Globex"})
	require.Error(t, err)
	var notFound *ClientNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Globex", notFound.Name)
	assert.Equal(t, 0, provider.calls)
}

func TestGenerateNoMatchingInvoicesSkipsModel(t *testing.T) {
	svc, provider, mailer, reports := newFixture()

	res, err := svc.Generate(context.Background(), Request{ManagerName: "Alice", Period: "2019"})
	require.NoError(t, err)
	assert.True(t, res.NoData)
	assert.False(t, res.Sent)
	assert.Equal(t, 0, provider.calls)
	assert.Equal(t, 0, mailer.sends)
	assert.Empty(t, reports.saved)
}

func TestGeneratePeriodFilterNarrowsScope(t *testing.T) {
	svc, provider, _, reports := newFixture()

	res, err := svc.Generate(context.Background(), Request{ManagerName: "Alice", Period: "2024-03"})
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.Equal(t, 1, provider.calls)
	require.Len(t, reports.saved, 1)
	require.NotNil(t, reports.saved[0].Period)
	assert.Equal(t, "2024-03", *reports.saved[0].Period)
	assert.Equal(t, "all_clients", reports.saved[0].ReportType)
}

func TestGenerateSaveFailureIsPartialSuccess(t *testing.T) {
	svc, _, mailer, reports := newFixture()
	reports.saveErr = errors.New("disk full")

	res, err := svc.Generate(context.Background(), Request{ManagerName: "Alice"})
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.False(t, res.Saved)
	assert.Contains(t, res.Message, "could not be saved")
	assert.Equal(t, 1, mailer.sends)
}

func TestGenerateSendFailureStopsPipeline(t *testing.T) {
	svc, _, mailer, reports := newFixture()
	mailer.err = errors.New("relay refused")

	_, err := svc.Generate(context.Background(), Request{ManagerName: "Alice"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send report")
	assert.Empty(t, reports.saved)
}

func TestGenerateSanitizesModelOutput(t *testing.T) {
	svc, provider, mailer, _ := newFixture()
	provider.output = "<div>Hello<script>alert(1)</script>World</div>"

	_, err := svc.Generate(context.Background(), Request{ManagerName: "Alice"})
	require.NoError(t, err)
	assert.NotContains(t, mailer.body, "<script>")
	assert.Contains(t, mailer.body, "HelloWorld")
}

func TestGenerateSkipsChartWhenBodyHasImage(t *testing.T) {
	svc, provider, mailer, _ := newFixture()
	provider.output = `<h1>Report</h1><img src="cid:existing">`
	svc.chart = func([]models.Invoice) ([]byte, error) {
		t.Fatal("chart should not be rendered when the body already has an image")
		return nil, nil
	}

	_, err := svc.Generate(context.Background(), Request{ManagerName: "Alice"})
	require.NoError(t, err)
	assert.NotContains(t, mailer.body, "data:image/png")
}

func TestBuildPromptIncludesInvoiceLines(t *testing.T) {
	manager := &models.Manager{Name: "Alice", Email: "alice@example.com"}
	invoices := []models.Invoice{
		{ID: 7, Amount: "42.00", IssuedAt: issued("2024-01-15"), Status: models.StatusPaid},
	}
	got := BuildPrompt(manager, "Acme", "2024-01", invoices)
	assert.Contains(t, got, "Alice <alice@example.com>")
	assert.Contains(t, got, "Client: Acme")
	assert.Contains(t, got, "Period: 2024-01")
	assert.Contains(t, got, "id=7 amount=42.00 status=paid issued_at=2024-01-15")
}
