// This file is part of Syncore.
//
// Syncore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Syncore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Syncore.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/openemulator/syncore/logger"
	"github.com/openemulator/syncore/modalflag"
	"github.com/openemulator/syncore/prefs"
	"github.com/openemulator/syncore/version"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// forward interrupt signals to the launch goroutine rather than ending
	// the program. used by modes that need to shut down cleanly. for example,
	// the PLAY mode must restore the terminal before quitting.
	//
	// takes no arguments.
	reqForwardIntSig stateReq = "FORWARDINTSIG"
)

type stateRequest struct {
	req  stateReq
	args interface{}
}

// GuiCreator facilitates the creation, servicing and destruction of GUIs
// that need to be run in the main thread.
//
// Note that there is no Create() function because we need the freedom to
// create the GUI how we want. Instead the creator is a channel which accepts
// a function that returns an instance of GuiCreator.
type GuiCreator interface {
	// cleanup resources used by the gui
	Destroy(io.Writer)

	// Service() should not pause or loop longer than necessary. It MUST ONLY
	// be called as part of a larger loop from the main thread. It should
	// service all gui events that are not safe to do in sub-threads.
	Service()
}

// communication between the main() function and the launch() function. this is
// required because many gui solutions (notably SDL) require window event
// handling (including creation) to occur on the main thread.
type mainSync struct {
	state   chan stateRequest
	creator chan func() (GuiCreator, error)

	// the result of creator will be returned on either of these two channels.
	creation      chan GuiCreator
	creationError chan error

	// interrupt signals are sent on this channel after a reqForwardIntSig
	// request
	interrupt chan os.Signal
}

// #mainthread
func main() {
	sync := &mainSync{
		state:         make(chan stateRequest),
		creator:       make(chan func() (GuiCreator, error)),
		creation:      make(chan GuiCreator),
		creationError: make(chan error),
		interrupt:     make(chan os.Signal, 1),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// #ctrlc default handler. can be redirected with reqForwardIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	forwardIntSig := false

	// the service channel is nil until a gui has been created. the ready
	// channel is closed and so is always ready to receive from
	ready := make(chan struct{})
	close(ready)
	var service chan struct{}

	// launch program as a go routine. further communication is through
	// the mainSync instance
	go launch(sync, os.Args[1:])

	// loop until done is true. every iteration of the loop we listen for:
	//
	//  1. interrupt signals
	//  2. new gui creation functions
	//  3. state requests
	//  4. anything in the Service() function of the most recently created GUI
	done := false
	var gui GuiCreator
	for !done {
		select {
		case sig := <-intChan:
			if forwardIntSig {
				select {
				case sync.interrupt <- sig:
				default:
				}
				continue
			}
			fmt.Println("\r")
			done = true

		case creator := <-sync.creator:
			var err error

			// destroy existing gui
			if gui != nil {
				gui.Destroy(os.Stderr)
			}

			gui, err = creator()
			if err != nil {
				sync.creationError <- err

				// an interface holding a nil pointer is not equal to nil
				gui = nil
				service = nil
			} else {
				sync.creation <- gui
				service = ready
			}

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if gui != nil {
					gui.Destroy(os.Stderr)
				}

				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqForwardIntSig:
				forwardIntSig = true
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqForwardIntSig))
				}
			}

		case <-service:
			gui.Service()
		}
	}

	fmt.Print("\r")
	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// indicate gui creation and to quit.
func launch(sync *mainSync, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "PLAY", "CAPTURE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		// 10
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, sync)

	case "PLAY":
		err = play(md, sync)

	case "CAPTURE":
		err = capture(md)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

// flags common to all modes that run an emulation or a stream.
type commonFlags struct {
	log      *bool
	setPrefs *string
}

func addCommonFlags(md *modalflag.Modes) commonFlags {
	return commonFlags{
		log:      md.AddBool("log", false, "echo debugging log to stdout"),
		setPrefs: md.AddString("setprefs", "", "set preferences for this session. eg. \"canvas.letterbox::false; input.pasteInterval::20\""),
	}
}

// apply the common flags. must be called after the mode has been parsed.
func (cf commonFlags) apply() {
	if *cf.log {
		logger.SetEcho(os.Stdout, true)
	} else {
		logger.SetEcho(nil, false)
	}

	if *cf.setPrefs != "" {
		prefs.PushCommandLineStack(*cf.setPrefs)
	}
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from version control (if available)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	inf := version.Version()
	fmt.Println(inf.Version)
	if *revision {
		fmt.Println(inf.Revision)
		fmt.Println(inf.GoVersion)
	}

	return nil
}
