package authcore

// actionType enumerates the four state transitions. No other code path
// mutates AuthState.
type actionType uint8

const (
	actionSetLoading actionType = iota
	actionSetSession
	actionSetUser
	actionSignOutReset
)

// authAction is the tagged union consumed by [reduce]. Exactly one payload
// field is meaningful per type.
type authAction struct {
	typ     actionType
	loading bool
	session *AuthSession
	user    *AuthUser
}

func setLoading(loading bool) authAction {
	return authAction{typ: actionSetLoading, loading: loading}
}

func setSession(session *AuthSession) authAction {
	return authAction{typ: actionSetSession, session: session}
}

func setUser(user *AuthUser) authAction {
	return authAction{typ: actionSetUser, user: user}
}

func signOutReset() authAction {
	return authAction{typ: actionSignOutReset}
}

// reduce is the pure state-transition function: current state plus one
// action yields the next state. Unknown action types return the state
// unchanged.
func reduce(state AuthState, action authAction) AuthState {
	switch action.typ {
	case actionSetLoading:
		state.Loading = action.loading
		return state
	case actionSetSession:
		state.Session = action.session
		return state
	case actionSetUser:
		state.User = action.user
		return state
	case actionSignOutReset:
		return AuthState{User: nil, Session: nil, Loading: false}
	default:
		return state
	}
}
