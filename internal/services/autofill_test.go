package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applyflow/autofill-engine/internal/models"
)

type stubClassifier struct {
	mu          sync.Mutex
	predictions map[string]struct {
		category   string
		confidence float64
	}
	err   error
	calls []string
}

func (c *stubClassifier) Predict(_ context.Context, label string) (string, float64, error) {
	c.mu.Lock()
	c.calls = append(c.calls, label)
	c.mu.Unlock()

	if c.err != nil {
		return "", 0, c.err
	}
	if p, ok := c.predictions[label]; ok {
		return p.category, p.confidence, nil
	}
	return "none", 0, nil
}

func (c *stubClassifier) Ready() bool { return true }

type stubGemini struct {
	mu         sync.Mutex
	categories map[string]string
	err        error
	delay      time.Duration
	calls      []string
}

func (g *stubGemini) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	return make([]float32, 768), nil
}

func (g *stubGemini) ClassifyFieldLabel(ctx context.Context, label string) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, label)
	g.mu.Unlock()

	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if g.err != nil {
		return "", g.err
	}
	if cat, ok := g.categories[label]; ok {
		return cat, nil
	}
	return "none", nil
}

type panickingClassifier struct{}

func (panickingClassifier) Predict(context.Context, string) (string, float64, error) {
	panic("classifier backend unavailable")
}

func (panickingClassifier) Ready() bool { return true }

func newTestService(t *testing.T, classifier LabelClassifier, gemini GeminiService) (AutofillService, MemoryStore) {
	t.Helper()

	memory := NewInMemoryStore()
	tracker, err := NewSessionTracker(16)
	require.NoError(t, err)
	matcher, err := NewFieldMatcher(tracker, 100)
	require.NoError(t, err)

	if classifier == nil {
		classifier = &stubClassifier{}
	}
	if gemini == nil {
		gemini = &stubGemini{}
	}

	return NewAutofillService(memory, tracker, matcher, classifier, gemini, 5, time.Second), memory
}

func testProfile() models.ProfileData {
	return models.ProfileData{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "555-0100",
		Experience: []models.ExperienceItem{
			{Company: "Acme", Position: "Engineer", StartDate: "Jun 2021", EndDate: "Present"},
			{Company: "Initech", Position: "Analyst", StartDate: "Jan 2018", EndDate: "Dec 2019"},
		},
	}
}

func TestResolve_EmptyFieldListYieldsEmptyMap(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	results := svc.Resolve(context.Background(), models.AutofillRequest{Profile: testProfile()})

	assert.Empty(t, results)
}

func TestResolve_SkipsFieldsWithEmptyLabels(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	results := svc.Resolve(context.Background(), models.AutofillRequest{
		Fields:  []models.Field{{FieldID: "f1", Label: ""}},
		Profile: testProfile(),
	})

	assert.Empty(t, results)
}

func TestResolve_RuleStageFillsContactFields(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	results := svc.Resolve(context.Background(), models.AutofillRequest{
		Fields: []models.Field{
			{FieldID: "f1", Label: "First Name"},
			{FieldID: "f2", Label: "Last Name"},
			{FieldID: "f3", Label: "Email Address"},
			{FieldID: "f4", Label: "Phone Number"},
		},
		Profile: testProfile(),
	})

	assert.Equal(t, "Jane", results["f1"])
	assert.Equal(t, "Doe", results["f2"])
	assert.Equal(t, "jane@example.com", results["f3"])
	assert.Equal(t, "555-0100", results["f4"])
}

func TestResolve_RepeatedGroupsFillInOrderOfAppearance(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	results := svc.Resolve(context.Background(), models.AutofillRequest{
		Fields: []models.Field{
			{FieldID: "workExperience-7_company", Label: "Company"},
			{FieldID: "workExperience-7_jobTitle", Label: "Job Title"},
			{FieldID: "workExperience-2_company", Label: "Company"},
		},
		Profile: testProfile(),
	})

	// Acme ranks first (current role), so the first group seen gets it.
	assert.Equal(t, "Acme", results["workExperience-7_company"])
	assert.Equal(t, "Engineer", results["workExperience-7_jobTitle"])
	assert.Equal(t, "Initech", results["workExperience-2_company"])
}

func TestResolve_GroupFieldsBypassMemoryCache(t *testing.T) {
	svc, memory := newTestService(t, nil, nil)

	req := models.AutofillRequest{
		Fields: []models.Field{
			{FieldID: "workExperience-7_company", Label: "Company"},
			{FieldID: "workExperience-2_company", Label: "Company"},
		},
		Profile: testProfile(),
	}

	results := svc.Resolve(context.Background(), req)

	// The shared "Company" label must not be cached off the first group and
	// served to the second.
	assert.Equal(t, "Acme", results["workExperience-7_company"])
	assert.Equal(t, "Initech", results["workExperience-2_company"])
	assert.Equal(t, 0, memory.Len())

	// A repeat resolution still goes through the session-indexed matcher.
	results = svc.Resolve(context.Background(), req)
	assert.Equal(t, "Acme", results["workExperience-7_company"])
	assert.Equal(t, "Initech", results["workExperience-2_company"])
}

func TestResolve_MemoryHitShortCircuitsTheMatcher(t *testing.T) {
	svc, memory := newTestService(t, nil, nil)

	memory.Save("First Name", "Cached", FieldTypeName)

	results := svc.Resolve(context.Background(), models.AutofillRequest{
		Fields:  []models.Field{{FieldID: "f1", Label: "First Name"}},
		Profile: testProfile(),
	})

	assert.Equal(t, "Cached", results["f1"])
}

func TestResolve_RuleMatchWritesThroughToMemoryWithType(t *testing.T) {
	svc, memory := newTestService(t, nil, nil)

	svc.Resolve(context.Background(), models.AutofillRequest{
		Fields:  []models.Field{{FieldID: "f1", Label: "Email Address"}},
		Profile: testProfile(),
	})

	value, ok := memory.Get("Email Address", FieldTypeEmail)
	assert.True(t, ok)
	assert.Equal(t, "jane@example.com", value)
}

func TestResolve_KNNStageHandlesUnmatchedLabels(t *testing.T) {
	classifier := &stubClassifier{
		predictions: map[string]struct {
			category   string
			confidence float64
		}{
			"Electronic Mail": {"email", 0.9},
		},
	}
	svc, memory := newTestService(t, classifier, nil)

	results := svc.Resolve(context.Background(), models.AutofillRequest{
		Fields:  []models.Field{{FieldID: "f1", Label: "Electronic Mail"}},
		Profile: testProfile(),
	})

	assert.Equal(t, "jane@example.com", results["f1"])

	// kNN hits are cached untyped.
	value, ok := memory.Get("Electronic Mail", "")
	assert.True(t, ok)
	assert.Equal(t, "jane@example.com", value)
}

func TestResolve_KNNBelowThresholdFallsThroughToLLM(t *testing.T) {
	classifier := &stubClassifier{
		predictions: map[string]struct {
			category   string
			confidence float64
		}{
			"Electronic Mail": {"email", 0.5},
		},
	}
	gemini := &stubGemini{categories: map[string]string{"Electronic Mail": "email"}}
	svc, _ := newTestService(t, classifier, gemini)

	results := svc.Resolve(context.Background(), models.AutofillRequest{
		Fields:  []models.Field{{FieldID: "f1", Label: "Electronic Mail"}},
		Profile: testProfile(),
	})

	assert.Equal(t, "jane@example.com", results["f1"])
	assert.Contains(t, gemini.calls, "Electronic Mail")
}

func TestResolve_KNNErrorIsAbsorbed(t *testing.T) {
	classifier := &stubClassifier{err: errors.New("vector backend down")}
	svc, _ := newTestService(t, classifier, nil)

	results := svc.Resolve(context.Background(), models.AutofillRequest{
		Fields:  []models.Field{{FieldID: "f1", Label: "Electronic Mail"}},
		Profile: testProfile(),
	})

	assert.NotContains(t, results, "f1")
}

func TestResolve_LLMNoneAnswerLeavesFieldUnfilled(t *testing.T) {
	gemini := &stubGemini{categories: map[string]string{"Why do you want this job?": "none"}}
	svc, memory := newTestService(t, nil, gemini)

	results := svc.Resolve(context.Background(), models.AutofillRequest{
		Fields:  []models.Field{{FieldID: "f1", Label: "Why do you want this job?"}},
		Profile: testProfile(),
	})

	assert.NotContains(t, results, "f1")
	assert.Equal(t, 0, memory.Len())
}

func TestResolve_LLMErrorLeavesFieldUnfilled(t *testing.T) {
	gemini := &stubGemini{err: errors.New("quota exceeded")}
	svc, _ := newTestService(t, nil, gemini)

	results := svc.Resolve(context.Background(), models.AutofillRequest{
		Fields:  []models.Field{{FieldID: "f1", Label: "Obscure Question"}},
		Profile: testProfile(),
	})

	assert.NotContains(t, results, "f1")
}

func TestResolve_LLMTimeoutLeavesFieldUnfilled(t *testing.T) {
	gemini := &stubGemini{
		categories: map[string]string{"Slow Field": "email"},
		delay:      200 * time.Millisecond,
	}
	memory := NewInMemoryStore()
	tracker, err := NewSessionTracker(16)
	require.NoError(t, err)
	matcher, err := NewFieldMatcher(tracker, 100)
	require.NoError(t, err)
	svc := NewAutofillService(memory, tracker, matcher, &stubClassifier{}, gemini, 5, 20*time.Millisecond)

	results := svc.Resolve(context.Background(), models.AutofillRequest{
		Fields:  []models.Field{{FieldID: "f1", Label: "Slow Field"}},
		Profile: testProfile(),
	})

	assert.NotContains(t, results, "f1")
}

func TestResolve_FullNameLabelGetsJoinedName(t *testing.T) {
	classifier := &stubClassifier{
		predictions: map[string]struct {
			category   string
			confidence float64
		}{
			"Your full name as on passport": {"first_name", 0.9},
		},
	}
	svc, _ := newTestService(t, classifier, nil)

	results := svc.Resolve(context.Background(), models.AutofillRequest{
		Fields:  []models.Field{{FieldID: "f1", Label: "Your full name as on passport"}},
		Profile: testProfile(),
	})

	assert.Equal(t, "Jane Doe", results["f1"])
}

func TestResolve_ExperienceYearsCountsRoles(t *testing.T) {
	classifier := &stubClassifier{
		predictions: map[string]struct {
			category   string
			confidence float64
		}{
			"How many years of experience?": {"experience_years", 0.9},
		},
	}
	svc, _ := newTestService(t, classifier, nil)

	results := svc.Resolve(context.Background(), models.AutofillRequest{
		Fields:  []models.Field{{FieldID: "f1", Label: "How many years of experience?"}},
		Profile: testProfile(),
	})

	assert.Equal(t, "2", results["f1"])
}

func TestResolve_ExperienceYearsZeroWithoutExperience(t *testing.T) {
	classifier := &stubClassifier{
		predictions: map[string]struct {
			category   string
			confidence float64
		}{
			"How many years of experience?": {"experience_years", 0.9},
		},
	}
	svc, _ := newTestService(t, classifier, nil)

	results := svc.Resolve(context.Background(), models.AutofillRequest{
		Fields:  []models.Field{{FieldID: "f1", Label: "How many years of experience?"}},
		Profile: models.ProfileData{FullName: "Jane Doe"},
	})

	assert.Equal(t, "0", results["f1"])
}

func TestResolveBatch_ItemsAreIsolated(t *testing.T) {
	memory := NewInMemoryStore()
	tracker, err := NewSessionTracker(16)
	require.NoError(t, err)
	matcher, err := NewFieldMatcher(tracker, 100)
	require.NoError(t, err)
	svc := NewAutofillService(memory, tracker, matcher, panickingClassifier{}, &stubGemini{}, 5, time.Second)

	reqs := []models.AutofillRequest{
		{
			// Rule stage resolves everything, so the panicking classifier
			// never runs for this item.
			Fields:  []models.Field{{FieldID: "f1", Label: "First Name"}},
			Profile: testProfile(),
		},
		{
			// This label reaches the kNN stage and panics.
			Fields:  []models.Field{{FieldID: "f2", Label: "Obscure Question"}},
			Profile: testProfile(),
		},
		{
			Fields:  []models.Field{{FieldID: "f3", Label: "Email Address"}},
			Profile: testProfile(),
		},
	}

	results := svc.ResolveBatch(context.Background(), reqs)

	require.Len(t, results, 3)
	assert.Equal(t, "Jane", results[0]["f1"])
	assert.Empty(t, results[1])
	assert.NotNil(t, results[1])
	assert.Equal(t, "jane@example.com", results[2]["f3"])
}

func TestResolveBatch_EmptyBatch(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	results := svc.ResolveBatch(context.Background(), nil)

	assert.Empty(t, results)
}
