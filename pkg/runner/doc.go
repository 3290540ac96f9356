/*
Package runner implements the host loop that drives the punchline engine.

It acts as the bridge between the stateless state machine and the outside
world. Each turn renders the current state, hands the actions to an IOHandler,
collects input when the state asks for it and navigates to the next state.

# Key Components

  - Runner: the loop. It stops on quit, on EOF, on Ctrl+C or on a service error.
  - IOHandler: decouples how actions are shown and input is read.
  - TextHandler: the interactive terminal implementation.
  - JSONHandler: JSON-lines implementation for scripted or piped use.
  - HumanCritic: a ports.Critic that asks the person at the terminal.

# Usage

	handler := runner.NewTextHandler(os.Stdin, os.Stdout)
	engine, _ := runtime.NewEngine(services)
	session, _ := engine.Start(ctx, "")

	r := runner.NewRunner(runner.WithInputHandler(handler))
	if _, err := r.Run(ctx, engine, session); err != nil {
		log.Fatal(err)
	}
*/
package runner
