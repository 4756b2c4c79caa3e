package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ligun0805/mintbot/internal/address"
	"github.com/ligun0805/mintbot/internal/mintcore"
	"github.com/ligun0805/mintbot/internal/schedule"
)

type prompter struct {
	in  *bufio.Reader
	out io.Writer
	now func() time.Time
	loc *time.Location
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out, now: time.Now, loc: time.Local}
}

func (p *prompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	t, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || t == "") {
		return "", err
	}
	return strings.TrimSpace(t), nil
}

// ask re-prompts until parse accepts the answer. Only a read error ends it early.
func ask[T any](p *prompter, prompt string, parse func(string) (T, error)) (T, error) {
	for {
		line, err := p.readLine(prompt)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(p.out, "  [!] %v\n", err)
	}
}

func yes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}

type mintMode int

const (
	modeInstant mintMode = iota + 1
	modeScheduled
)

func (p *prompter) askMode() (mintMode, error) {
	fmt.Fprintln(p.out, "Mint mode:")
	fmt.Fprintln(p.out, "  1) instant")
	fmt.Fprintln(p.out, "  2) scheduled")
	return ask(p, "Choose [1/2]: ", func(s string) (mintMode, error) {
		switch strings.ToLower(s) {
		case "1", "instant":
			return modeInstant, nil
		case "2", "scheduled":
			return modeScheduled, nil
		}
		return 0, errors.New("enter 1 or 2")
	})
}

func (p *prompter) askContract() (common.Address, error) {
	return ask(p, "Contract address or Magic Eden link: ", func(s string) (common.Address, error) {
		addr, ok := address.Extract(s)
		if !ok {
			return common.Address{}, errors.New("not a contract address or a supported link")
		}
		return common.HexToAddress(addr), nil
	})
}

// askUseContractPrice defaults to yes on an empty answer.
func (p *prompter) askUseContractPrice() (bool, error) {
	line, err := p.readLine("Read the mint price from the contract? [Y/n]: ")
	if err != nil {
		return false, err
	}
	return line == "" || yes(line), nil
}

func (p *prompter) askPrice() (*big.Int, error) {
	return ask(p, "Mint price per token (native units, 0 for free): ", mintcore.ParseEther)
}

func (p *prompter) askSchedule() (schedule.Target, error) {
	fmt.Fprintln(p.out, "Schedule format:")
	fmt.Fprintln(p.out, "  1) date and time ("+schedule.DateTimeLayout+")")
	fmt.Fprintln(p.out, "  2) countdown in seconds")
	byDate, err := ask(p, "Choose [1/2]: ", func(s string) (bool, error) {
		switch s {
		case "1":
			return true, nil
		case "2":
			return false, nil
		}
		return false, errors.New("enter 1 or 2")
	})
	if err != nil {
		return schedule.Target{}, err
	}

	if byDate {
		return ask(p, "Mint at (YYYY-MM-DD HH:MM:SS, local time): ", func(s string) (schedule.Target, error) {
			return schedule.ParseDateTime(s, p.loc)
		})
	}
	return ask(p, "Mint in how many seconds: ", func(s string) (schedule.Target, error) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			return schedule.Target{}, errors.New("enter a positive whole number of seconds")
		}
		return schedule.In(time.Duration(n)*time.Second, p.now()), nil
	})
}

// choices is everything the operator answers before a run.
type choices struct {
	Contract         common.Address
	UseContractPrice bool
	ManualPrice      *big.Int
	Schedule         *schedule.Target
}

func (p *prompter) collect() (choices, error) {
	var c choices
	mode, err := p.askMode()
	if err != nil {
		return c, err
	}
	if c.Contract, err = p.askContract(); err != nil {
		return c, err
	}
	if c.UseContractPrice, err = p.askUseContractPrice(); err != nil {
		return c, err
	}
	if !c.UseContractPrice {
		if c.ManualPrice, err = p.askPrice(); err != nil {
			return c, err
		}
	}
	if mode == modeScheduled {
		t, err := p.askSchedule()
		if err != nil {
			return c, err
		}
		c.Schedule = &t
	}
	return c, nil
}
