package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/rv32im-trace/rv32im"
	"github.com/rv32im-trace/rv32im/rv32i"
)

// watchModel is an interactive single-step debugger: space/j executes
// one instruction, q quits. It mirrors the teacher-adjacent TUI pattern
// of driving one Step per keypress and re-rendering the whole view.
type watchModel struct {
	vm   *rv32im.VMState
	dec  rv32i.Decoder
	last rv32im.StepRecord
	err  error
}

func runWatch(vm *rv32im.VMState) {
	m, err := tea.NewProgram(watchModel{vm: vm}).Run()
	if err != nil {
		panic(err)
	}
	if final, ok := m.(watchModel); ok && final.err != nil {
		fmt.Println("Error:", final.err)
	}
}

func (m watchModel) Init() tea.Cmd { return nil }

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "j":
		if m.vm.Halted() {
			return m, nil
		}
		record, err := m.vm.Step(m.dec)
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.last = record
	}
	return m, nil
}

func (m watchModel) registerRows() string {
	regs := m.vm.Registers()
	var b strings.Builder
	for i := 0; i < rv32im.RegCount-1; i++ {
		fmt.Fprintf(&b, "x%-2d = %#010x  ", i, regs[i])
		if i%4 == 3 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m watchModel) status() string {
	return fmt.Sprintf(
		"pc   = %#010x\nhalt = %v\ncycle= %d\n\n%s",
		m.vm.GetPC().U32(), m.vm.Halted(), m.last.Cycle, m.registerRows(),
	)
}

func (m watchModel) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		"rvtrace watch — space/j: step, q: quit",
		"",
		m.status(),
		"",
		spew.Sdump(m.last),
	)
}
