package bristol671_test

import (
	"testing"

	"github.com/lightbench/bristol671"
	"github.com/stretchr/testify/assert"
)

func TestEventStatusRegister(t *testing.T) {
	t.Run("no faults on a clear register", func(t *testing.T) {
		assert.True(t, bristol671.EventStatus(0).OK())
		assert.Empty(t, bristol671.EventStatus(0).Bits())
	})

	t.Run("operation complete is not a fault", func(t *testing.T) {
		reg := bristol671.EventStatus(1)
		assert.True(t, reg.OK())
		assert.True(t, reg.Has(bristol671.EventOperationComplete))
	})

	t.Run("command error is a fault", func(t *testing.T) {
		reg := bristol671.EventStatus(1 << 5)
		assert.False(t, reg.OK())
		assert.Equal(t, []bristol671.EventStatusBit{bristol671.EventCommandError}, reg.Faults())
	})

	t.Run("mutation composes enable masks", func(t *testing.T) {
		var reg bristol671.EventStatus
		reg.Set(bristol671.EventPowerOn)
		reg.Set(bristol671.EventQueryError)
		assert.Equal(t, bristol671.EventStatus(1<<7|1<<2), reg)

		reg.Clear(bristol671.EventQueryError)
		assert.Equal(t, bristol671.EventStatus(1<<7), reg)
	})

	t.Run("string lists set bits", func(t *testing.T) {
		reg := bristol671.EventStatus(1<<0 | 1<<7)
		assert.Equal(t, "EventStatus(OperationComplete|PowerOn)", reg.String())
	})
}

func TestStatusByteRegister(t *testing.T) {
	reg := bristol671.StatusByte(1<<2 | 1<<5)
	assert.True(t, reg.OK())
	assert.Equal(t,
		[]bristol671.StatusByteBit{
			bristol671.StatusEventSummary,
			bristol671.StatusQuestionableSummary,
		},
		reg.Bits(),
	)

	reg.Set(bristol671.StatusErrorQueueNotEmpty)
	assert.False(t, reg.OK())
	assert.Equal(t, []bristol671.StatusByteBit{bristol671.StatusErrorQueueNotEmpty}, reg.Faults())
}

func TestQuestionableRegister(t *testing.T) {
	t.Run("every set bit is a fault", func(t *testing.T) {
		reg := bristol671.QuestionableStatus(1<<4 | 1<<9)
		assert.False(t, reg.OK())
		assert.Equal(t,
			[]bristol671.QuestionableBit{
				bristol671.QuestionableTemperatureOutOfRange,
				bristol671.QuestionablePressureOutOfRange,
			},
			reg.Faults(),
		)
	})

	t.Run("string names the conditions", func(t *testing.T) {
		reg := bristol671.QuestionableStatus(1 << 10)
		assert.Equal(t, "QuestionableStatus(ReferenceNotStable)", reg.String())
	})

	t.Run("clear register is ok", func(t *testing.T) {
		assert.True(t, bristol671.QuestionableStatus(0).OK())
	})
}
