package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pillmate/pill-helper/internal/domain"
)

type analyzerFunc func(ctx context.Context, imageURI string, mode domain.PrescriptionMode) (domain.PrescriptionResult, error)

func (f analyzerFunc) Analyze(ctx context.Context, imageURI string, mode domain.PrescriptionMode) (domain.PrescriptionResult, error) {
	return f(ctx, imageURI, mode)
}

func staticAnalyzer(result domain.PrescriptionResult, err error) analyzerFunc {
	return func(context.Context, string, domain.PrescriptionMode) (domain.PrescriptionResult, error) {
		return result, err
	}
}

func assertNoTyping(t *testing.T, msgs []domain.Message) {
	t.Helper()
	for _, m := range msgs {
		assert.NotEqual(t, domain.MessageTyping, m.Type)
	}
}

func TestPrescriptionSessionStartsWithWelcome(t *testing.T) {
	s := NewPrescriptionSession(staticAnalyzer(nil, nil), "약봉투 사진을 올려주세요.", nil)

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "약봉투 사진을 올려주세요.", msgs[0].Text)
}

func TestSubmitWithMedications(t *testing.T) {
	result := domain.PrescriptionResult{
		"medications": []interface{}{
			map[string]interface{}{"name": "아모크라정", "dosage": "1정"},
		},
	}
	s := NewPrescriptionSession(staticAnalyzer(result, nil), "welcome", nil)

	require.NoError(t, s.Submit(context.Background(), "file:///bag.jpg", domain.ModePharmacyBag))

	msgs := s.Messages()
	assert.Equal(t, []domain.MessageType{
		domain.MessageText,
		domain.MessageImage,
		domain.MessagePrescriptionResult,
		domain.MessageText,
	}, messageTypes(msgs))
	assert.Equal(t, bagCaption, msgs[1].Text)
	assert.Equal(t, analysisDoneText, msgs[3].Text)
	assertNoTyping(t, msgs)
}

func TestSubmitHospitalModeCaption(t *testing.T) {
	result := domain.PrescriptionResult{"prescribed_drugs": []interface{}{"세파클러캡슐"}}
	s := NewPrescriptionSession(staticAnalyzer(result, nil), "welcome", nil)

	require.NoError(t, s.Submit(context.Background(), "file:///rx.jpg", domain.ModeHospitalPrescription))

	msgs := s.Messages()
	assert.Equal(t, hospitalCaption, msgs[1].Text)
	assert.Equal(t, domain.MessagePrescriptionResult, msgs[2].Type)
}

func TestSubmitWithoutMedicationList(t *testing.T) {
	result := domain.PrescriptionResult{"status": "success", "message": "글자를 읽지 못했어요"}
	s := NewPrescriptionSession(staticAnalyzer(result, nil), "welcome", nil)

	require.NoError(t, s.Submit(context.Background(), "file:///blur.jpg", domain.ModePharmacyBag))

	msgs := s.Messages()
	assert.Equal(t, analysisUnclearText, msgs[len(msgs)-1].Text)
	assert.NotContains(t, messageTypes(msgs), domain.MessagePrescriptionResult)
	assertNoTyping(t, msgs)
}

func TestSubmitNullMedicationsTreatedAsUnclear(t *testing.T) {
	result := domain.PrescriptionResult{"medications": nil}
	s := NewPrescriptionSession(staticAnalyzer(result, nil), "welcome", nil)

	require.NoError(t, s.Submit(context.Background(), "file:///blur.jpg", domain.ModePharmacyBag))

	msgs := s.Messages()
	assert.Equal(t, analysisUnclearText, msgs[len(msgs)-1].Text)
}

func TestSubmitAnalyzerFailure(t *testing.T) {
	s := NewPrescriptionSession(staticAnalyzer(nil, errors.New("timeout")), "welcome", nil)

	require.NoError(t, s.Submit(context.Background(), "file:///bag.jpg", domain.ModePharmacyBag))

	msgs := s.Messages()
	assert.Equal(t, analysisFailText, msgs[len(msgs)-1].Text)
	assertNoTyping(t, msgs)

	// session is usable again
	require.NoError(t, s.SubmitText("다시 해볼게요"))
}

func TestPrescriptionSubmitTextNudge(t *testing.T) {
	s := NewPrescriptionSession(staticAnalyzer(nil, nil), "welcome", nil)

	require.NoError(t, s.SubmitText("분석해줘"))

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, uploadFirstNudge, msgs[2].Text)
}
